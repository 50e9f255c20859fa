package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/jwt"
	"fanvault-console/pkg/jwt/jwttest"
	"fanvault-console/pkg/logger"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/query"
	"fanvault-console/pkg/search"
	"fanvault-console/pkg/tokenstore"
	"fanvault-console/services/admin/internal/repo/webapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlatformRepository struct {
	mock.Mock
}

func (m *MockPlatformRepository) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockPlatformRepository) ListArtists(ctx context.Context, view search.ViewState, limit int) (*models.Page[models.Artist], error) {
	args := m.Called(ctx, view, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.Artist]), args.Error(1)
}

func (m *MockPlatformRepository) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockPlatformRepository) CreateArtist(ctx context.Context, req models.ArtistCreate) (*models.Artist, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockPlatformRepository) UpdateArtist(ctx context.Context, id string, req models.ArtistUpdate) (*models.Artist, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockPlatformRepository) ToggleStatus(ctx context.Context, id string) (*models.StatusResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusResult), args.Error(1)
}

func (m *MockPlatformRepository) SetVerified(ctx context.Context, id string, verified bool) (*models.VerifiedResult, error) {
	args := m.Called(ctx, id, verified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerifiedResult), args.Error(1)
}

func (m *MockPlatformRepository) ListPending(ctx context.Context, view search.ViewState, limit int) (*models.Page[models.Content], error) {
	args := m.Called(ctx, view, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Page[models.Content]), args.Error(1)
}

func (m *MockPlatformRepository) Approve(ctx context.Context, contentID string) error {
	return m.Called(ctx, contentID).Error(0)
}

func (m *MockPlatformRepository) Reject(ctx context.Context, contentID, reason string) error {
	return m.Called(ctx, contentID, reason).Error(0)
}

func (m *MockPlatformRepository) DeleteContent(ctx context.Context, contentID string) error {
	return m.Called(ctx, contentID).Error(0)
}

func (m *MockPlatformRepository) Overview(ctx context.Context) (*models.AdminOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminOverview), args.Error(1)
}

func (m *MockPlatformRepository) Revenue(ctx context.Context, period string) (*models.RevenueReport, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RevenueReport), args.Error(1)
}

var _ webapi.PlatformRepository = (*MockPlatformRepository)(nil)

type fixture struct {
	repo   *MockPlatformRepository
	tokens tokenstore.Store
	cache  *query.Client
	uc     AdminUseCase
}

func newFixture(t *testing.T) *fixture {
	log := logger.New()
	repo := new(MockPlatformRepository)
	tokens := tokenstore.NewMemoryStore()
	cache := query.NewClient(query.WithLogger(log))
	t.Cleanup(cache.Close)
	runner := mutation.NewRunner(cache, mutation.NewBusySet(), log)
	return &fixture{
		repo:   repo,
		tokens: tokens,
		cache:  cache,
		uc:     NewAdminUseCase(repo, tokens, jwt.NewService(""), runner, 20, log),
	}
}

var ctxAny = mock.Anything

func pendingPage(ids ...string) *models.Page[models.Content] {
	p := &models.Page[models.Content]{Page: 1, Limit: 20, Total: len(ids), TotalPages: 1}
	for _, id := range ids {
		p.Items = append(p.Items, models.Content{ID: id, Type: models.ContentAudio, Status: models.ContentPending})
	}
	return p
}

func ids(items []models.Content) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.ID)
	}
	return out
}

func TestApprove_OptimisticRemovalThenRollback(t *testing.T) {
	f := newFixture(t)
	view := search.ViewState{Page: 1}
	f.repo.On("ListPending", ctxAny, view, 20).Return(pendingPage("7", "42", "9"), nil)

	list, err := f.uc.ListPending(context.Background(), view)
	require.NoError(t, err)
	require.Len(t, list.Page.Items, 3)

	f.repo.On("Approve", ctxAny, "42").Run(func(args mock.Arguments) {
		during, err := f.uc.ListPending(context.Background(), view)
		require.NoError(t, err)
		assert.Equal(t, []string{"7", "9"}, ids(during.Page.Items))
		assert.Equal(t, []string{"42"}, during.Busy)
	}).Return(&apiclient.Error{Method: "PATCH", Status: 500, Message: "Moderation service unavailable"})

	rec, err := f.uc.Approve(context.Background(), "42")
	assert.Error(t, err)
	assert.Equal(t, "Moderation service unavailable", rec.Message)

	after, err := f.uc.ListPending(context.Background(), view)
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "42", "9"}, ids(after.Page.Items))
	assert.Empty(t, after.Busy)
	f.repo.AssertNumberOfCalls(t, "ListPending", 1)
}

func TestApprove_SuccessInvalidatesQueueAndDashboard(t *testing.T) {
	f := newFixture(t)
	view := search.ViewState{Page: 1}
	head := search.ViewState{Page: 1}

	f.repo.On("ListPending", ctxAny, view, 20).Return(pendingPage("7", "42", "9"), nil).Once()
	f.repo.On("Overview", ctxAny).Return(&models.AdminOverview{PendingContent: 3}, nil).Once()
	f.repo.On("ListPending", ctxAny, head, dashboardQueueSize).Return(pendingPage("7", "42", "9"), nil).Once()

	_, err := f.uc.ListPending(context.Background(), view)
	require.NoError(t, err)
	d, err := f.uc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, d.Overview.PendingContent)

	f.repo.On("Approve", ctxAny, "42").Run(func(args mock.Arguments) {
		during, _ := f.uc.Dashboard(context.Background())
		assert.Equal(t, 2, during.Overview.PendingContent)
		assert.Equal(t, []string{"7", "9"}, ids(during.Pending))
	}).Return(nil)

	f.repo.On("ListPending", ctxAny, view, 20).Return(pendingPage("7", "9"), nil)
	f.repo.On("Overview", ctxAny).Return(&models.AdminOverview{PendingContent: 2}, nil)
	f.repo.On("ListPending", ctxAny, head, dashboardQueueSize).Return(pendingPage("7", "9"), nil)

	rec, err := f.uc.Approve(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, rec.Succeeded())

	f.cache.Wait()
	f.repo.AssertNumberOfCalls(t, "Overview", 2)
	f.repo.AssertNumberOfCalls(t, "ListPending", 4)
}

func artistPage(statuses ...models.ArtistStatus) *models.Page[models.Artist] {
	p := &models.Page[models.Artist]{Page: 1, Limit: 20, Total: len(statuses), TotalPages: 1}
	for i, s := range statuses {
		p.Items = append(p.Items, models.Artist{ID: string(rune('a' + i)), Status: s})
	}
	return p
}

func TestToggleStatus_GuessThenServerTruth(t *testing.T) {
	f := newFixture(t)
	view := search.ViewState{Page: 1}
	f.repo.On("ListArtists", ctxAny, view, 20).Return(artistPage(models.ArtistActive, models.ArtistActive), nil).Once()
	_, err := f.uc.ListArtists(context.Background(), view)
	require.NoError(t, err)

	f.repo.On("ToggleStatus", ctxAny, "a").Run(func(args mock.Arguments) {
		during, _ := f.uc.ListArtists(context.Background(), view)
		assert.Equal(t, models.ArtistSuspended, during.Page.Items[0].Status)
		assert.Equal(t, models.ArtistActive, during.Page.Items[1].Status)
	}).Return(&models.StatusResult{ID: "a", Status: models.ArtistSuspended}, nil)

	refetched := make(chan struct{})
	f.repo.On("ListArtists", ctxAny, view, 20).Run(func(args mock.Arguments) {
		<-refetched
	}).Return(artistPage(models.ArtistSuspended, models.ArtistActive), nil)

	_, err = f.uc.ToggleStatus(context.Background(), "a")
	require.NoError(t, err)

	got, ok := query.GetAs[models.Page[models.Artist]](f.cache, view.Key(keyArtistList))
	require.True(t, ok)
	assert.Equal(t, models.ArtistSuspended, got.Items[0].Status)

	close(refetched)
	f.cache.Wait()
	got, _ = query.GetAs[models.Page[models.Artist]](f.cache, view.Key(keyArtistList))
	assert.Equal(t, models.ArtistSuspended, got.Items[0].Status)
}

func TestToggleStatus_FailureReverts(t *testing.T) {
	f := newFixture(t)
	view := search.ViewState{Page: 1}
	f.repo.On("ListArtists", ctxAny, view, 20).Return(artistPage(models.ArtistActive), nil).Once()
	_, err := f.uc.ListArtists(context.Background(), view)
	require.NoError(t, err)

	f.repo.On("ToggleStatus", ctxAny, "a").Return(nil, errors.New("connection reset"))

	rec, err := f.uc.ToggleStatus(context.Background(), "a")
	assert.Error(t, err)
	assert.Equal(t, "Failed to update artist status", rec.Message)

	got, _ := query.GetAs[models.Page[models.Artist]](f.cache, view.Key(keyArtistList))
	assert.Equal(t, models.ArtistActive, got.Items[0].Status)
}

func TestToggleStatus_BadReplyRefetchesInsteadOfReverting(t *testing.T) {
	f := newFixture(t)
	view := search.ViewState{Page: 1}
	f.repo.On("ListArtists", ctxAny, view, 20).Return(artistPage(models.ArtistActive), nil).Once()
	_, err := f.uc.ListArtists(context.Background(), view)
	require.NoError(t, err)

	f.repo.On("ToggleStatus", ctxAny, "a").Return(nil, models.BadPayload(models.Validate(&models.StatusResult{ID: "a", Status: "BANNED"})))
	f.repo.On("ListArtists", ctxAny, view, 20).Return(artistPage(models.ArtistSuspended), nil)

	rec, err := f.uc.ToggleStatus(context.Background(), "a")
	require.ErrorIs(t, err, models.ErrBadPayload)
	assert.False(t, rec.RolledBack)

	f.cache.Wait()
	got, _ := query.GetAs[models.Page[models.Artist]](f.cache, view.Key(keyArtistList))
	assert.Equal(t, models.ArtistSuspended, got.Items[0].Status)
	f.repo.AssertNumberOfCalls(t, "ListArtists", 2)
}

func TestListArtists_ClampsPastLastPage(t *testing.T) {
	f := newFixture(t)
	far := search.ViewState{Page: 9, Search: "nova"}
	last := search.ViewState{Page: 2, Search: "nova"}

	f.repo.On("ListArtists", ctxAny, far, 20).Return(&models.Page[models.Artist]{Page: 9, Total: 25, TotalPages: 2}, nil)
	f.repo.On("ListArtists", ctxAny, last, 20).Return(&models.Page[models.Artist]{
		Items: []models.Artist{{ID: "z", Status: models.ArtistActive}}, Page: 2, Total: 25, TotalPages: 2,
	}, nil)

	list, err := f.uc.ListArtists(context.Background(), far)
	require.NoError(t, err)
	assert.Equal(t, 2, list.View.Page)
	assert.Equal(t, "page=2&q=nova", list.Query)
	assert.Len(t, list.Page.Items, 1)
}

func TestArtistsWatch_CoversListedPages(t *testing.T) {
	f := newFixture(t)
	view := search.ViewState{Page: 1, Filter: "ACTIVE"}
	f.repo.On("ListArtists", ctxAny, view, 20).Return(artistPage(models.ArtistActive), nil)

	_, err := f.uc.ListArtists(context.Background(), view)
	require.NoError(t, err)

	watch := f.uc.ArtistsWatch()
	assert.Same(t, f.cache, watch.Source)
	assert.Len(t, f.cache.Keys(view.Key(watch.Base), true), 1)
}

func TestUpdateArtist_ListRowsShowEditBeforeRefetch(t *testing.T) {
	f := newFixture(t)
	view := search.ViewState{Page: 1}
	f.repo.On("ListArtists", ctxAny, view, 20).Return(artistPage(models.ArtistActive, models.ArtistActive), nil).Once()
	f.repo.On("ListArtists", ctxAny, view, 20).Return(nil, errors.New("connection reset"))

	_, err := f.uc.ListArtists(context.Background(), view)
	require.NoError(t, err)

	name := "Nova"
	price := 7.5
	req := models.ArtistUpdate{Name: &name, SubscriptionPrice: &price}
	f.repo.On("UpdateArtist", ctxAny, "a", req).Return(&models.Artist{ID: "a", Name: "Nova", SubscriptionPrice: 7.5, Status: models.ArtistActive}, nil)

	_, err = f.uc.UpdateArtist(context.Background(), "a", req)
	require.NoError(t, err)
	f.cache.Wait()

	page, ok := query.GetAs[models.Page[models.Artist]](f.cache, view.Key(keyArtistList))
	require.True(t, ok)
	assert.Equal(t, "Nova", page.Items[0].Name)
	assert.Equal(t, 7.5, page.Items[0].SubscriptionPrice)
	assert.Equal(t, "", page.Items[1].Name)
}

func TestDeleteContent_RemovesAndDecrementsThenRestores(t *testing.T) {
	f := newFixture(t)
	artist := &models.Artist{
		ID: "a1", Status: models.ArtistActive, TotalContent: 2,
		Content: []models.Content{{ID: "c1", Type: models.ContentAudio, Status: models.ContentPublished}, {ID: "c2", Type: models.ContentVideo, Status: models.ContentPublished}},
	}
	f.repo.On("GetArtist", ctxAny, "a1").Return(artist, nil).Once()
	before, err := f.uc.GetArtist(context.Background(), "a1")
	require.NoError(t, err)

	f.repo.On("DeleteContent", ctxAny, "c2").Run(func(args mock.Arguments) {
		during, _ := f.uc.GetArtist(context.Background(), "a1")
		assert.Equal(t, 1, during.Artist.TotalContent)
		assert.Equal(t, []string{"c1"}, ids(during.Artist.Content))
		assert.Contains(t, during.ContentBusy, "c2")
	}).Return(&apiclient.Error{Status: 403})

	_, err = f.uc.DeleteContent(context.Background(), "a1", "c2")
	assert.True(t, apiclient.IsUnauthorized(err))

	after, _ := f.uc.GetArtist(context.Background(), "a1")
	assert.Equal(t, before.Artist, after.Artist)
}

func TestReject_SecondCallOnBusyRowIsRefused(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	started := make(chan struct{})
	f.repo.On("Reject", ctxAny, "42", "low quality").Run(func(args mock.Arguments) {
		close(started)
		<-release
	}).Return(nil)
	f.repo.On("ListPending", ctxAny, mock.Anything, mock.Anything).Return(pendingPage(), nil).Maybe()

	done := make(chan error, 1)
	go func() {
		_, err := f.uc.Reject(context.Background(), "42", "low quality")
		done <- err
	}()
	<-started

	_, err := f.uc.Reject(context.Background(), "42", "low quality")
	assert.ErrorIs(t, err, mutation.ErrBusy)

	close(release)
	assert.NoError(t, <-done)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	token, _ := jwttest.Sign("upstream", "admin-1", "ADMIN", time.Hour)
	req := models.LoginRequest{Email: "admin@fanvault.io", Password: "secret"}
	f.repo.On("Login", ctxAny, req).Return(&models.LoginResponse{Token: token}, nil)

	session, err := f.uc.Login(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", session.UserID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	stored, _ := f.tokens.Get(context.Background())
	assert.Equal(t, token, stored)

	require.NoError(t, f.uc.Logout(context.Background()))
	stored, _ = f.tokens.Get(context.Background())
	assert.Empty(t, stored)
}

func TestLogin_RejectsOtherRoles(t *testing.T) {
	f := newFixture(t)
	token, _ := jwttest.Sign("upstream", "artist-1", "ARTIST", time.Hour)
	req := models.LoginRequest{Email: "artist@fanvault.io", Password: "secret"}
	f.repo.On("Login", ctxAny, req).Return(&models.LoginResponse{Token: token}, nil)

	_, err := f.uc.Login(context.Background(), req)
	assert.ErrorIs(t, err, ErrWrongRole)

	stored, _ := f.tokens.Get(context.Background())
	assert.Empty(t, stored)
}

func TestLogin_InvalidInputNeverCallsServer(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Login(context.Background(), models.LoginRequest{Email: "nope"})
	assert.ErrorIs(t, err, models.ErrValidation)
	f.repo.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestRevenue_RejectsUnknownPeriod(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Revenue(context.Background(), "decade")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
