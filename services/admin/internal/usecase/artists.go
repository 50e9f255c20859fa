package usecase

import (
	"context"

	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/query"
	"fanvault-console/pkg/search"
	"fanvault-console/services/admin/internal/entity"
)

func (uc *adminUseCase) ListArtists(ctx context.Context, view search.ViewState) (*entity.ArtistList, error) {
	page, err := uc.artistPage(ctx, view)
	if err != nil {
		return nil, err
	}
	// a page past the end (e.g. after the last row was suspended away) shows the last page
	if clamped := search.ClampPage(view.Page, page.TotalPages); clamped != view.Page {
		view = view.WithPage(clamped)
		if page, err = uc.artistPage(ctx, view); err != nil {
			return nil, err
		}
	}

	return &entity.ArtistList{
		View:  view,
		Query: view.Encode(),
		Page:  page,
		Busy:  uc.runner.Busy().Busy(scopeArtist),
	}, nil
}

// ArtistsWatch lets a live view follow every cached artist list page.
func (uc *adminUseCase) ArtistsWatch() search.Watch {
	return search.Watch{Source: uc.cache, Base: keyArtistList}
}

func (uc *adminUseCase) artistPage(ctx context.Context, view search.ViewState) (models.Page[models.Artist], error) {
	return query.FetchAs(ctx, uc.cache, view.Key(keyArtistList), func(ctx context.Context) (models.Page[models.Artist], error) {
		p, err := uc.repo.ListArtists(ctx, view, uc.pageSize)
		if err != nil {
			return models.Page[models.Artist]{}, err
		}
		return *p, nil
	})
}

func (uc *adminUseCase) GetArtist(ctx context.Context, id string) (*entity.ArtistDetail, error) {
	artist, err := query.FetchAs(ctx, uc.cache, keyArtistDetail.With(id), func(ctx context.Context) (models.Artist, error) {
		a, err := uc.repo.GetArtist(ctx, id)
		if err != nil {
			return models.Artist{}, err
		}
		return *a, nil
	})
	if err != nil {
		return nil, err
	}

	return &entity.ArtistDetail{
		Artist:      artist,
		ArtistBusy:  uc.runner.Busy().IsBusy(scopeArtist, id),
		ContentBusy: uc.runner.Busy().Busy(scopeContent),
	}, nil
}

func (uc *adminUseCase) CreateArtist(ctx context.Context, req models.ArtistCreate) (*models.Artist, error) {
	if err := models.Validate(&req); err != nil {
		return nil, err
	}
	artist, err := uc.repo.CreateArtist(ctx, req)
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(keyArtistList, false)
	uc.cache.Invalidate(keyDashboard, true)
	uc.logger.Info("[ARTISTS] created artist %s", artist.ID)
	return artist, nil
}

func (uc *adminUseCase) UpdateArtist(ctx context.Context, id string, req models.ArtistUpdate) (*models.Artist, error) {
	if err := models.Validate(&req); err != nil {
		return nil, err
	}
	artist, err := uc.repo.UpdateArtist(ctx, id, req)
	if err != nil {
		return nil, err
	}
	query.SetAs(uc.cache, keyArtistDetail.With(id), func(old models.Artist) models.Artist {
		updated := *artist
		if updated.Content == nil {
			updated.Content = old.Content
		}
		return updated
	})
	// list rows show the edit until their refetch lands
	mutation.Write{Key: keyArtistList, Prefix: true, Update: mapArtist(id, req.Apply)}.ApplyTo(uc.cache)
	uc.cache.Invalidate(keyArtistList, false)
	uc.cache.Invalidate(keyArtistDetail.With(id), true)
	return artist, nil
}

func mapArtist(id string, fn func(models.Artist) models.Artist) func(old interface{}) interface{} {
	return mutation.Update(func(p models.Page[models.Artist]) models.Page[models.Artist] {
		return models.Map(p, func(a models.Artist) models.Artist {
			if a.ID == id {
				return fn(a)
			}
			return a
		})
	})
}

// artistWrites applies fn to the artist in every cached list page and in its detail.
func artistWrites(id string, fn func(models.Artist) models.Artist) []mutation.Write {
	return []mutation.Write{
		{Key: keyArtistList, Prefix: true, Update: mapArtist(id, fn)},
		{Key: keyArtistDetail.With(id), Update: mutation.Update(fn)},
	}
}

func artistTargets(id string) []mutation.Target {
	return []mutation.Target{
		{Key: keyArtistList},
		{Key: keyArtistDetail.With(id), Exact: true},
		{Key: keyDashboard, Exact: true},
	}
}

// ToggleStatus flips ACTIVE and SUSPENDED. The endpoint takes no target, so the
// flip is a guess until the server answers with the resulting status.
func (uc *adminUseCase) ToggleStatus(ctx context.Context, id string) (*mutation.Record, error) {
	return uc.runner.Run(ctx, mutation.Action{
		Name:     "toggle artist status",
		Scope:    scopeArtist,
		EntityID: id,
		Optimistic: artistWrites(id, func(a models.Artist) models.Artist {
			a.Status = a.Status.Toggled()
			return a
		}),
		Call: func(ctx context.Context) (interface{}, error) {
			return uc.repo.ToggleStatus(ctx, id)
		},
		Reconcile: func(cache *query.Client, result interface{}) {
			res, ok := result.(*models.StatusResult)
			if !ok {
				return
			}
			for _, w := range artistWrites(id, func(a models.Artist) models.Artist {
				a.Status = res.Status
				return a
			}) {
				w.ApplyTo(cache)
			}
		},
		Invalidate:     artistTargets(id),
		FailureMessage: "Failed to update artist status",
	})
}

func (uc *adminUseCase) SetVerified(ctx context.Context, id string, verified bool) (*mutation.Record, error) {
	return uc.runner.Run(ctx, mutation.Action{
		Name:     "set artist verification",
		Scope:    scopeArtist,
		EntityID: id,
		Optimistic: artistWrites(id, func(a models.Artist) models.Artist {
			a.Verified = verified
			return a
		}),
		Call: func(ctx context.Context) (interface{}, error) {
			return uc.repo.SetVerified(ctx, id, verified)
		},
		Reconcile: func(cache *query.Client, result interface{}) {
			res, ok := result.(*models.VerifiedResult)
			if !ok {
				return
			}
			for _, w := range artistWrites(id, func(a models.Artist) models.Artist {
				a.Verified = res.Verified
				return a
			}) {
				w.ApplyTo(cache)
			}
		},
		Invalidate:     artistTargets(id),
		FailureMessage: "Failed to update verification",
	})
}
