package webapi

import (
	"context"
	"io"
	"strconv"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/search"
)

// StudioRepository is the artist side of the platform API.
type StudioRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)

	Me(ctx context.Context) (*models.Artist, error)
	UpdateMe(ctx context.Context, req models.ProfileUpdate) (*models.Artist, error)
	Pricing(ctx context.Context) (*models.Pricing, error)
	UpdatePricing(ctx context.Context, req models.PricingUpdate) (*models.Pricing, error)

	Stats(ctx context.Context) (*models.ArtistStats, error)
	Recent(ctx context.Context) ([]models.Content, error)
	Analytics(ctx context.Context, metric models.Metric, rangeName string) (*models.AnalyticsSeries, error)
	ChannelPreview(ctx context.Context) (*models.ChannelPreview, error)

	History(ctx context.Context, view search.ViewState, limit int) (*models.Page[models.Content], error)
	GetContent(ctx context.Context, id string) (*models.Content, error)
	DeleteContent(ctx context.Context, id string) error
	Upload(ctx context.Context, body io.Reader, contentType string) (*models.Content, error)
}

type studioRepository struct {
	client *apiclient.Client
}

func NewStudioRepository(client *apiclient.Client) StudioRepository {
	return &studioRepository{client: client}
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

func (r *studioRepository) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	return decode[models.LoginResponse](ctx, r.client.Post("/api/v1/fan/auth/login").Json(req))
}

func (r *studioRepository) Me(ctx context.Context) (*models.Artist, error) {
	return decode[models.Artist](ctx, r.client.Get("/api/v1/artist/me"))
}

func (r *studioRepository) UpdateMe(ctx context.Context, req models.ProfileUpdate) (*models.Artist, error) {
	return decode[models.Artist](ctx, r.client.Patch("/api/v1/artist/me").Json(req))
}

func (r *studioRepository) Pricing(ctx context.Context) (*models.Pricing, error) {
	return decode[models.Pricing](ctx, r.client.Get("/api/v1/artist/pricing"))
}

func (r *studioRepository) UpdatePricing(ctx context.Context, req models.PricingUpdate) (*models.Pricing, error) {
	return decode[models.Pricing](ctx, r.client.Patch("/api/v1/artist/pricing").Json(req))
}

func (r *studioRepository) Stats(ctx context.Context) (*models.ArtistStats, error) {
	return decode[models.ArtistStats](ctx, r.client.Get("/api/v1/artist/dashboard/stats"))
}

func (r *studioRepository) Recent(ctx context.Context) ([]models.Content, error) {
	var items []models.Content
	if err := r.client.Get("/api/v1/artist/dashboard/recent").Do(ctx, &items); err != nil {
		return nil, err
	}
	if err := models.ValidateEach(items); err != nil {
		return nil, models.BadPayload(err)
	}
	return items, nil
}

func (r *studioRepository) Analytics(ctx context.Context, metric models.Metric, rangeName string) (*models.AnalyticsSeries, error) {
	series, err := decode[models.AnalyticsSeries](ctx, r.client.Get("/api/v1/artist/analytics/"+string(metric)).Param("range", rangeName))
	if err != nil {
		return nil, err
	}
	if series.Metric == "" {
		series.Metric = metric
	}
	return series, nil
}

func (r *studioRepository) ChannelPreview(ctx context.Context) (*models.ChannelPreview, error) {
	return decode[models.ChannelPreview](ctx, r.client.Get("/api/v1/artist/channel-preview"))
}

func (r *studioRepository) History(ctx context.Context, view search.ViewState, limit int) (*models.Page[models.Content], error) {
	return decode[models.Page[models.Content]](ctx, r.client.Get("/api/v1/content/history").
		Param("page", strconv.Itoa(view.Page)).
		Param("limit", strconv.Itoa(limit)).
		Param("status", view.Filter).
		Param("search", view.Search))
}

func (r *studioRepository) GetContent(ctx context.Context, id string) (*models.Content, error) {
	return decode[models.Content](ctx, r.client.Get("/api/v1/content/"+id))
}

func (r *studioRepository) DeleteContent(ctx context.Context, id string) error {
	return r.client.Delete("/api/v1/content/"+id).Do(ctx, nil)
}

func (r *studioRepository) Upload(ctx context.Context, body io.Reader, contentType string) (*models.Content, error) {
	return decode[models.Content](ctx, r.client.Post("/api/v1/content/upload").Body(body, contentType))
}
