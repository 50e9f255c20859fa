package usecase

import (
	"context"

	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/query"
	"fanvault-console/pkg/search"
	"fanvault-console/services/admin/internal/entity"
)

func (uc *adminUseCase) ListPending(ctx context.Context, view search.ViewState) (*entity.PendingList, error) {
	page, err := uc.pendingPage(ctx, view)
	if err != nil {
		return nil, err
	}
	if clamped := search.ClampPage(view.Page, page.TotalPages); clamped != view.Page {
		view = view.WithPage(clamped)
		if page, err = uc.pendingPage(ctx, view); err != nil {
			return nil, err
		}
	}

	return &entity.PendingList{
		View:  view,
		Query: view.Encode(),
		Page:  page,
		Busy:  uc.runner.Busy().Busy(scopeContent),
	}, nil
}

func (uc *adminUseCase) pendingPage(ctx context.Context, view search.ViewState) (models.Page[models.Content], error) {
	return query.FetchAs(ctx, uc.cache, view.Key(keyPending), func(ctx context.Context) (models.Page[models.Content], error) {
		p, err := uc.repo.ListPending(ctx, view, uc.pageSize)
		if err != nil {
			return models.Page[models.Content]{}, err
		}
		return *p, nil
	})
}

func contentMatches(id string) func(models.Content) bool {
	return func(c models.Content) bool { return c.ID == id }
}

// leaveQueue removes the item from every cached page of the queue and from the
// dashboard, whose pending count follows the queue.
func leaveQueue(contentID string) []mutation.Write {
	return []mutation.Write{
		{
			Key:    keyPending,
			Prefix: true,
			Update: mutation.Update(func(p models.Page[models.Content]) models.Page[models.Content] {
				return models.Without(p, contentMatches(contentID))
			}),
		},
		{
			Key: keyDashboard,
			Update: mutation.Update(func(d models.AdminDashboard) models.AdminDashboard {
				pending := make([]models.Content, 0, len(d.Pending))
				for _, c := range d.Pending {
					if c.ID != contentID {
						pending = append(pending, c)
					}
				}
				d.Pending = pending
				if d.Overview.PendingContent > 0 {
					d.Overview.PendingContent--
				}
				return d
			}),
		},
	}
}

func queueTargets() []mutation.Target {
	return []mutation.Target{
		{Key: keyPending},
		{Key: keyDashboard, Exact: true},
		{Key: keyArtistDetail},
	}
}

func (uc *adminUseCase) Approve(ctx context.Context, contentID string) (*mutation.Record, error) {
	return uc.runner.Run(ctx, mutation.Action{
		Name:       "approve content",
		Scope:      scopeContent,
		EntityID:   contentID,
		Optimistic: leaveQueue(contentID),
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, uc.repo.Approve(ctx, contentID)
		},
		Invalidate:     queueTargets(),
		FailureMessage: "Failed to approve content",
	})
}

func (uc *adminUseCase) Reject(ctx context.Context, contentID, reason string) (*mutation.Record, error) {
	if err := models.Validate(&models.RejectRequest{Reason: reason}); err != nil {
		return nil, err
	}
	return uc.runner.Run(ctx, mutation.Action{
		Name:       "reject content",
		Scope:      scopeContent,
		EntityID:   contentID,
		Optimistic: leaveQueue(contentID),
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, uc.repo.Reject(ctx, contentID, reason)
		},
		Invalidate:     queueTargets(),
		FailureMessage: "Failed to reject content",
	})
}

// DeleteContent removes a content item from the artist detail. The artist's
// content count is decremented as a separate best-effort write.
func (uc *adminUseCase) DeleteContent(ctx context.Context, artistID, contentID string) (*mutation.Record, error) {
	decrement := func(a models.Artist) models.Artist {
		if a.TotalContent > 0 {
			a.TotalContent--
		}
		return a
	}

	return uc.runner.Run(ctx, mutation.Action{
		Name:     "delete content",
		Scope:    scopeContent,
		EntityID: contentID,
		Optimistic: []mutation.Write{
			{
				Key: keyArtistDetail.With(artistID),
				Update: mutation.Update(func(a models.Artist) models.Artist {
					content := make([]models.Content, 0, len(a.Content))
					for _, c := range a.Content {
						if c.ID != contentID {
							content = append(content, c)
						}
					}
					a.Content = content
					return a
				}),
			},
			{Key: keyArtistDetail.With(artistID), Update: mutation.Update(decrement)},
			{Key: keyArtistList, Prefix: true, Update: mapArtist(artistID, decrement)},
			{
				Key:    keyPending,
				Prefix: true,
				Update: mutation.Update(func(p models.Page[models.Content]) models.Page[models.Content] {
					return models.Without(p, contentMatches(contentID))
				}),
			},
		},
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, uc.repo.DeleteContent(ctx, contentID)
		},
		Invalidate: []mutation.Target{
			{Key: keyArtistDetail.With(artistID), Exact: true},
			{Key: keyArtistList},
			{Key: keyPending},
			{Key: keyDashboard, Exact: true},
		},
		FailureMessage: "Failed to delete content",
	})
}
