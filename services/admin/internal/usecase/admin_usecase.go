package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fanvault-console/pkg/jwt"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/query"
	"fanvault-console/pkg/search"
	"fanvault-console/pkg/tokenstore"
	"fanvault-console/services/admin/internal/entity"
	"fanvault-console/services/admin/internal/repo/webapi"
)

const (
	scopeArtist  = "artist"
	scopeContent = "content"

	dashboardQueueSize = 5
	adminRole          = "ADMIN"
)

var (
	ErrWrongRole     = errors.New("account is not an admin")
	ErrInvalidPeriod = errors.New("period must be one of week, month, year")
)

var (
	keyArtists      = query.NewKey("admin", "artists")
	keyArtistList   = keyArtists.With("list")
	keyArtistDetail = keyArtists.With("detail")
	keyPending      = query.NewKey("admin", "content", "pending")
	keyDashboard    = query.NewKey("admin", "dashboard")
	keyRevenue      = query.NewKey("admin", "analytics", "revenue")
)

type AdminUseCase interface {
	Login(ctx context.Context, req models.LoginRequest) (*entity.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*entity.Session, error)

	Dashboard(ctx context.Context) (*models.AdminDashboard, error)
	Revenue(ctx context.Context, period string) (*models.RevenueReport, error)

	ListArtists(ctx context.Context, view search.ViewState) (*entity.ArtistList, error)
	ArtistsWatch() search.Watch
	GetArtist(ctx context.Context, id string) (*entity.ArtistDetail, error)
	CreateArtist(ctx context.Context, req models.ArtistCreate) (*models.Artist, error)
	UpdateArtist(ctx context.Context, id string, req models.ArtistUpdate) (*models.Artist, error)
	ToggleStatus(ctx context.Context, id string) (*mutation.Record, error)
	SetVerified(ctx context.Context, id string, verified bool) (*mutation.Record, error)

	ListPending(ctx context.Context, view search.ViewState) (*entity.PendingList, error)
	Approve(ctx context.Context, contentID string) (*mutation.Record, error)
	Reject(ctx context.Context, contentID, reason string) (*mutation.Record, error)
	DeleteContent(ctx context.Context, artistID, contentID string) (*mutation.Record, error)
}

type adminUseCase struct {
	repo       webapi.PlatformRepository
	tokens     tokenstore.Store
	jwtService *jwt.Service
	cache      *query.Client
	runner     *mutation.Runner
	pageSize   int
	logger     *logger.Logger
}

func NewAdminUseCase(
	repo webapi.PlatformRepository,
	tokens tokenstore.Store,
	jwtService *jwt.Service,
	runner *mutation.Runner,
	pageSize int,
	logger *logger.Logger,
) AdminUseCase {
	return &adminUseCase{
		repo:       repo,
		tokens:     tokens,
		jwtService: jwtService,
		cache:      runner.Cache(),
		runner:     runner,
		pageSize:   pageSize,
		logger:     logger,
	}
}

func (uc *adminUseCase) Login(ctx context.Context, req models.LoginRequest) (*entity.Session, error) {
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
	if claims.Role != "" && !strings.EqualFold(claims.Role, adminRole) {
		return nil, ErrWrongRole
	}

	if err := uc.tokens.Set(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	// A new session must not see rows cached for the previous one.
	uc.cache.Clear()

	uc.logger.Info("[SESSION] admin %s logged in", claims.Identity())
	return sessionOf(claims), nil
}

func (uc *adminUseCase) Logout(ctx context.Context) error {
	uc.cache.Clear()
	return uc.tokens.Clear(ctx)
}

func (uc *adminUseCase) Session(ctx context.Context) (*entity.Session, error) {
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
	return sessionOf(claims), nil
}

func sessionOf(claims *jwt.Claims) *entity.Session {
	s := &entity.Session{UserID: claims.Identity(), Role: claims.Role}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		s.ExpiresAt = &t
	}
	return s
}

func (uc *adminUseCase) Dashboard(ctx context.Context) (*models.AdminDashboard, error) {
	d, err := query.FetchAs(ctx, uc.cache, keyDashboard, func(ctx context.Context) (models.AdminDashboard, error) {
		overview, err := uc.repo.Overview(ctx)
		if err != nil {
			return models.AdminDashboard{}, err
		}
		queue, err := uc.repo.ListPending(ctx, search.ViewState{Page: 1}, dashboardQueueSize)
		if err != nil {
			return models.AdminDashboard{}, err
		}
		return models.AdminDashboard{Overview: *overview, Pending: queue.Items}, nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (uc *adminUseCase) Revenue(ctx context.Context, period string) (*models.RevenueReport, error) {
	switch period {
	case "":
		period = "month"
	case "week", "month", "year":
	default:
		return nil, fmt.Errorf("%w: %w", models.ErrValidation, ErrInvalidPeriod)
	}
	r, err := query.FetchAs(ctx, uc.cache, keyRevenue.With(period), func(ctx context.Context) (models.RevenueReport, error) {
		r, err := uc.repo.Revenue(ctx, period)
		if err != nil {
			return models.RevenueReport{}, err
		}
		return *r, nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
