package usecase

import (
	"context"

	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/query"
	"fanvault-console/pkg/search"
	"fanvault-console/services/artist/internal/entity"
)

func (uc *artistUseCase) ListContent(ctx context.Context, view search.ViewState) (*entity.ContentList, error) {
	page, err := uc.historyPage(ctx, view)
	if err != nil {
		return nil, err
	}
	if clamped := search.ClampPage(view.Page, page.TotalPages); clamped != view.Page {
		view = view.WithPage(clamped)
		if page, err = uc.historyPage(ctx, view); err != nil {
			return nil, err
		}
	}

	return &entity.ContentList{
		View:  view,
		Query: view.Encode(),
		Page:  page,
		Busy:  uc.runner.Busy().Busy(scopeContent),
	}, nil
}

// ContentWatch lets a live view follow every cached history page.
func (uc *artistUseCase) ContentWatch() search.Watch {
	return search.Watch{Source: uc.cache, Base: keyHistory}
}

func (uc *artistUseCase) historyPage(ctx context.Context, view search.ViewState) (models.Page[models.Content], error) {
	return query.FetchAs(ctx, uc.cache, view.Key(keyHistory), func(ctx context.Context) (models.Page[models.Content], error) {
		p, err := uc.repo.History(ctx, view, uc.pageSize)
		if err != nil {
			return models.Page[models.Content]{}, err
		}
		return *p, nil
	})
}

func (uc *artistUseCase) GetContent(ctx context.Context, id string) (*entity.ContentDetail, error) {
	content, err := query.FetchAs(ctx, uc.cache, keyContentDetail.With(id), func(ctx context.Context) (models.Content, error) {
		c, err := uc.repo.GetContent(ctx, id)
		if err != nil {
			return models.Content{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, err
	}
	return &entity.ContentDetail{
		Content: content,
		Busy:    uc.runner.Busy().IsBusy(scopeContent, id),
	}, nil
}

// DeleteContent drops the item from every cached history page and the dashboard.
// The artist's content count is a second best-effort write.
func (uc *artistUseCase) DeleteContent(ctx context.Context, id string) (*mutation.Record, error) {
	match := func(c models.Content) bool { return c.ID == id }

	return uc.runner.Run(ctx, mutation.Action{
		Name:     "delete content",
		Scope:    scopeContent,
		EntityID: id,
		Optimistic: []mutation.Write{
			{
				Key:    keyHistory,
				Prefix: true,
				Update: mutation.Update(func(p models.Page[models.Content]) models.Page[models.Content] {
					return models.Without(p, match)
				}),
			},
			{
				Key: keyDashboard,
				Update: mutation.Update(func(d models.ArtistDashboard) models.ArtistDashboard {
					recent := make([]models.Content, 0, len(d.Recent))
					for _, c := range d.Recent {
						if !match(c) {
							recent = append(recent, c)
						}
					}
					d.Recent = recent
					if d.Stats.TotalContent > 0 {
						d.Stats.TotalContent--
					}
					return d
				}),
			},
			{
				Key: keyMe,
				Update: mutation.Update(func(a models.Artist) models.Artist {
					if a.TotalContent > 0 {
						a.TotalContent--
					}
					return a
				}),
			},
		},
		Call: func(ctx context.Context) (interface{}, error) {
			return nil, uc.repo.DeleteContent(ctx, id)
		},
		Reconcile: func(cache *query.Client, _ interface{}) {
			cache.Remove(keyContentDetail.With(id), true)
		},
		Invalidate: []mutation.Target{
			{Key: keyHistory},
			{Key: keyDashboard, Exact: true},
			{Key: keyMe, Exact: true},
			{Key: keyChannel, Exact: true},
		},
		FailureMessage: "Failed to delete content",
	})
}
