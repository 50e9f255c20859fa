package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fanvault-console/pkg/jwt"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/query"
	"fanvault-console/pkg/search"
	"fanvault-console/pkg/staging"
	"fanvault-console/pkg/tokenstore"
	"fanvault-console/services/artist/internal/entity"
	"fanvault-console/services/artist/internal/repo/webapi"
)

const (
	scopeContent = "content"
	artistRole   = "ARTIST"
	defaultRange = "30d"
)

var (
	ErrWrongRole     = errors.New("account is not an artist")
	ErrConsoleLocked = errors.New("artist account is suspended or not verified yet")
	ErrUnknownMetric = errors.New("metric must be one of plays, revenue, subscribers")
	ErrInvalidRange  = errors.New("range must be one of 7d, 30d, 90d, 1y")
)

var (
	keyMe            = query.NewKey("artist", "me")
	keyPricing       = query.NewKey("artist", "pricing")
	keyDashboard     = query.NewKey("artist", "dashboard")
	keyAnalytics     = query.NewKey("artist", "analytics")
	keyChannel       = query.NewKey("artist", "channel-preview")
	keyContent       = query.NewKey("artist", "content")
	keyHistory       = keyContent.With("history")
	keyContentDetail = keyContent.With("detail")
)

type ArtistUseCase interface {
	Login(ctx context.Context, req models.LoginRequest) (*entity.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*entity.Session, error)
	CheckAccess(ctx context.Context) error

	Me(ctx context.Context) (*models.Artist, error)
	UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.Artist, error)
	Pricing(ctx context.Context) (*models.Pricing, error)
	UpdatePricing(ctx context.Context, req models.PricingUpdate) (*models.Pricing, error)

	Dashboard(ctx context.Context) (*models.ArtistDashboard, error)
	Analytics(ctx context.Context, metric, rangeName string) (*models.AnalyticsSeries, error)
	ChannelPreview(ctx context.Context) (*models.ChannelPreview, error)

	ListContent(ctx context.Context, view search.ViewState) (*entity.ContentList, error)
	ContentWatch() search.Watch
	GetContent(ctx context.Context, id string) (*entity.ContentDetail, error)
	DeleteContent(ctx context.Context, id string) (*mutation.Record, error)

	Draft() staging.DraftView
	SetDraftDetails(title, genre string) staging.DraftView
	StageFile(ctx context.Context, kind staging.MediaKind, source staging.IntakeSource, name string, r io.Reader) (*staging.StagedFile, error)
	UnstageFile(ctx context.Context, kind staging.MediaKind) staging.DraftView
	DiscardDraft(ctx context.Context) staging.DraftView
	SubmitDraft(ctx context.Context) (*models.Content, error)
}

type artistUseCase struct {
	repo       webapi.StudioRepository
	tokens     tokenstore.Store
	jwtService *jwt.Service
	cache      *query.Client
	runner     *mutation.Runner
	stager     *staging.Stager
	pageSize   int
	logger     *logger.Logger
}

func NewArtistUseCase(
	repo webapi.StudioRepository,
	tokens tokenstore.Store,
	jwtService *jwt.Service,
	runner *mutation.Runner,
	stager *staging.Stager,
	pageSize int,
	logger *logger.Logger,
) ArtistUseCase {
	return &artistUseCase{
		repo:       repo,
		tokens:     tokens,
		jwtService: jwtService,
		cache:      runner.Cache(),
		runner:     runner,
		stager:     stager,
		pageSize:   pageSize,
		logger:     logger,
	}
}

func (uc *artistUseCase) Login(ctx context.Context, req models.LoginRequest) (*entity.Session, error) {
	if err := models.Validate(&req); err != nil {
		return nil, err
	}

	res, err := uc.repo.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	claims, err := uc.jwtService.Inspect(res.Token)
	if err != nil {
		return nil, fmt.Errorf("login returned an unusable token: %w", err)
	}
	if claims.Role != "" && !strings.EqualFold(claims.Role, artistRole) {
		return nil, ErrWrongRole
	}

	if err := uc.tokens.Set(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	uc.cache.Clear()
	uc.stager.Release(ctx)

	me, err := uc.gate(ctx)
	if err != nil {
		// no half-open session
		_ = uc.tokens.Clear(ctx)
		return nil, err
	}

	uc.logger.Info("[SESSION] artist %s logged in", claims.Identity())
	session := sessionOf(claims)
	session.Artist = me
	return session, nil
}

func (uc *artistUseCase) Logout(ctx context.Context) error {
	uc.cache.Clear()
	uc.stager.Release(ctx)
	return uc.tokens.Clear(ctx)
}

func (uc *artistUseCase) Session(ctx context.Context) (*entity.Session, error) {
	token, err := uc.tokens.Get(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, jwt.ErrTokenExpired
	}
	claims, err := uc.jwtService.Inspect(token)
	if err != nil {
		return nil, err
	}
	session := sessionOf(claims)
	if me, ok := query.GetAs[models.Artist](uc.cache, keyMe); ok {
		session.Artist = &me
	}
	return session, nil
}

func sessionOf(claims *jwt.Claims) *entity.Session {
	s := &entity.Session{UserID: claims.Identity(), Role: claims.Role}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		s.ExpiresAt = &t
	}
	return s
}

// CheckAccess ends the session of an artist who is suspended or not verified.
func (uc *artistUseCase) CheckAccess(ctx context.Context) error {
	_, err := uc.gate(ctx)
	return err
}

func (uc *artistUseCase) gate(ctx context.Context) (*models.Artist, error) {
	me, err := uc.Me(ctx)
	if err != nil {
		return nil, err
	}
	if me.CanAccessConsole() {
		return me, nil
	}
	uc.logger.Warn("[SESSION] artist %s locked out (status %s, verified %t)", me.ID, me.Status, me.Verified)
	uc.cache.Clear()
	if err := uc.tokens.Clear(ctx); err != nil {
		uc.logger.Error("Failed to clear session token: %v", err)
	}
	return nil, ErrConsoleLocked
}

func (uc *artistUseCase) Me(ctx context.Context) (*models.Artist, error) {
	me, err := query.FetchAs(ctx, uc.cache, keyMe, func(ctx context.Context) (models.Artist, error) {
		a, err := uc.repo.Me(ctx)
		if err != nil {
			return models.Artist{}, err
		}
		return *a, nil
	})
	if err != nil {
		return nil, err
	}
	return &me, nil
}

func (uc *artistUseCase) UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.Artist, error) {
	if err := models.Validate(&req); err != nil {
		return nil, err
	}
	artist, err := uc.repo.UpdateMe(ctx, req)
	if err != nil {
		return nil, err
	}
	query.SetAs(uc.cache, keyMe, func(models.Artist) models.Artist { return *artist })
	query.SetAs(uc.cache, keyChannel, func(p models.ChannelPreview) models.ChannelPreview {
		p.Artist = req.Apply(p.Artist)
		return p
	})
	uc.cache.Invalidate(keyMe, true)
	uc.cache.Invalidate(keyChannel, true)
	return artist, nil
}

func (uc *artistUseCase) Pricing(ctx context.Context) (*models.Pricing, error) {
	p, err := query.FetchAs(ctx, uc.cache, keyPricing, func(ctx context.Context) (models.Pricing, error) {
		p, err := uc.repo.Pricing(ctx)
		if err != nil {
			return models.Pricing{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (uc *artistUseCase) UpdatePricing(ctx context.Context, req models.PricingUpdate) (*models.Pricing, error) {
	if err := models.Validate(&req); err != nil {
		return nil, err
	}
	pricing, err := uc.repo.UpdatePricing(ctx, req)
	if err != nil {
		return nil, err
	}
	query.SetAs(uc.cache, keyPricing, func(models.Pricing) models.Pricing { return *pricing })
	uc.cache.Invalidate(keyPricing, true)
	uc.cache.Invalidate(keyMe, true)
	uc.cache.Invalidate(keyChannel, true)
	return pricing, nil
}

func (uc *artistUseCase) Dashboard(ctx context.Context) (*models.ArtistDashboard, error) {
	d, err := query.FetchAs(ctx, uc.cache, keyDashboard, func(ctx context.Context) (models.ArtistDashboard, error) {
		stats, err := uc.repo.Stats(ctx)
		if err != nil {
			return models.ArtistDashboard{}, err
		}
		recent, err := uc.repo.Recent(ctx)
		if err != nil {
			return models.ArtistDashboard{}, err
		}
		return models.ArtistDashboard{Stats: *stats, Recent: recent}, nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (uc *artistUseCase) Analytics(ctx context.Context, metric, rangeName string) (*models.AnalyticsSeries, error) {
	m, ok := models.ParseMetric(metric)
	if !ok {
		return nil, fmt.Errorf("%w: %w", models.ErrValidation, ErrUnknownMetric)
	}
	switch rangeName {
	case "":
		rangeName = defaultRange
	case "7d", "30d", "90d", "1y":
	default:
		return nil, fmt.Errorf("%w: %w", models.ErrValidation, ErrInvalidRange)
	}

	s, err := query.FetchAs(ctx, uc.cache, keyAnalytics.With(string(m), rangeName), func(ctx context.Context) (models.AnalyticsSeries, error) {
		s, err := uc.repo.Analytics(ctx, m, rangeName)
		if err != nil {
			return models.AnalyticsSeries{}, err
		}
		return *s, nil
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (uc *artistUseCase) ChannelPreview(ctx context.Context) (*models.ChannelPreview, error) {
	p, err := query.FetchAs(ctx, uc.cache, keyChannel, func(ctx context.Context) (models.ChannelPreview, error) {
		p, err := uc.repo.ChannelPreview(ctx)
		if err != nil {
			return models.ChannelPreview{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
