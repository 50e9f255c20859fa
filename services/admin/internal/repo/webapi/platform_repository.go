package webapi

import (
	"context"
	"strconv"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/search"
)

// PlatformRepository is the admin side of the platform API.
type PlatformRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)

	ListArtists(ctx context.Context, view search.ViewState, limit int) (*models.Page[models.Artist], error)
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
	CreateArtist(ctx context.Context, req models.ArtistCreate) (*models.Artist, error)
	UpdateArtist(ctx context.Context, id string, req models.ArtistUpdate) (*models.Artist, error)
	ToggleStatus(ctx context.Context, id string) (*models.StatusResult, error)
	SetVerified(ctx context.Context, id string, verified bool) (*models.VerifiedResult, error)

	ListPending(ctx context.Context, view search.ViewState, limit int) (*models.Page[models.Content], error)
	Approve(ctx context.Context, contentID string) error
	Reject(ctx context.Context, contentID, reason string) error
	DeleteContent(ctx context.Context, contentID string) error

	Overview(ctx context.Context) (*models.AdminOverview, error)
	Revenue(ctx context.Context, period string) (*models.RevenueReport, error)
}

type platformRepository struct {
	client *apiclient.Client
}

func NewPlatformRepository(client *apiclient.Client) PlatformRepository {
	return &platformRepository{client: client}
}

// decode runs req and validates the payload before it reaches the cache.
func decode[T any](ctx context.Context, req *apiclient.Request) (*T, error) {
	var out T
	if err := req.Do(ctx, &out); err != nil {
		return nil, err
	}
	if err := models.Validate(&out); err != nil {
		return nil, models.BadPayload(err)
	}
	return &out, nil
}

func (r *platformRepository) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return decode[models.LoginResponse](ctx, r.client.Post("/api/v1/admin/login").Json(req))
}

func (r *platformRepository) ListArtists(ctx context.Context, view search.ViewState, limit int) (*models.Page[models.Artist], error) {
	return decode[models.Page[models.Artist]](ctx, r.client.Get("/api/v1/admin/artists").
		Param("page", strconv.Itoa(view.Page)).
		Param("limit", strconv.Itoa(limit)).
		Param("status", view.Filter).
		Param("search", view.Search))
}

func (r *platformRepository) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	return decode[models.Artist](ctx, r.client.Get("/api/v1/admin/artists/"+id))
}

func (r *platformRepository) CreateArtist(ctx context.Context, req models.ArtistCreate) (*models.Artist, error) {
	return decode[models.Artist](ctx, r.client.Post("/api/v1/admin/artists/create").Json(req))
}

func (r *platformRepository) UpdateArtist(ctx context.Context, id string, req models.ArtistUpdate) (*models.Artist, error) {
	return decode[models.Artist](ctx, r.client.Patch("/api/v1/admin/artists/"+id).Json(req))
}

func (r *platformRepository) ToggleStatus(ctx context.Context, id string) (*models.StatusResult, error) {
	res, err := decode[models.StatusResult](ctx, r.client.Patch("/api/v1/admin/artists/"+id+"/status"))
	if err != nil {
		return nil, err
	}
	if res.ID == "" {
		res.ID = id
	}
	return res, nil
}

func (r *platformRepository) SetVerified(ctx context.Context, id string, verified bool) (*models.VerifiedResult, error) {
	var res models.VerifiedResult
	err := r.client.Patch("/api/v1/admin/artists/"+id+"/verified").
		Json(map[string]bool{"is_verified": verified}).
		Do(ctx, &res)
	if err != nil {
		return nil, err
	}
	if res.ID == "" {
		res.ID = id
		res.Verified = verified
	}
	return &res, nil
}

func (r *platformRepository) ListPending(ctx context.Context, view search.ViewState, limit int) (*models.Page[models.Content], error) {
	return decode[models.Page[models.Content]](ctx, r.client.Get("/api/v1/admin/content/pending").
		Param("page", strconv.Itoa(view.Page)).
		Param("limit", strconv.Itoa(limit)).
		Param("type", view.Filter).
		Param("search", view.Search))
}

func (r *platformRepository) Approve(ctx context.Context, contentID string) error {
	return r.client.Patch("/api/v1/admin/content/"+contentID+"/approve").Do(ctx, nil)
}

func (r *platformRepository) Reject(ctx context.Context, contentID, reason string) error {
	return r.client.Patch("/api/v1/admin/content/"+contentID+"/reject").
		Json(models.RejectRequest{Reason: reason}).
		Do(ctx, nil)
}

func (r *platformRepository) DeleteContent(ctx context.Context, contentID string) error {
	return r.client.Delete("/api/v1/content/"+contentID).Do(ctx, nil)
}

func (r *platformRepository) Overview(ctx context.Context) (*models.AdminOverview, error) {
	return decode[models.AdminOverview](ctx, r.client.Get("/api/v1/admin/analytics/overview"))
}

func (r *platformRepository) Revenue(ctx context.Context, period string) (*models.RevenueReport, error) {
	return decode[models.RevenueReport](ctx, r.client.Get("/api/v1/admin/analytics/revenue").Param("period", period))
}
