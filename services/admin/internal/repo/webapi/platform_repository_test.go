package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fanvault-console/pkg/apiclient"
	"fanvault-console/pkg/models"
	"fanvault-console/pkg/search"
	"fanvault-console/pkg/tokenstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, handler http.HandlerFunc) PlatformRepository {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := tokenstore.NewMemoryStore()
	require.NoError(t, tokens.Set(context.Background(), "tok"))
	return NewPlatformRepository(apiclient.New(apiclient.Options{BaseURL: srv.URL, Tokens: tokens}))
}

func TestListPending_SendsViewAsQuery(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/content/pending", r.URL.Path)
		assert.Equal(t, "VIDEO", r.URL.Query().Get("type"))
		assert.Equal(t, "", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[{"id":"42","type":"VIDEO","status":"PENDING"}],"page":1,"limit":20,"total":1,"total_pages":1}}`))
	})

	page, err := repo.ListPending(context.Background(), search.ViewState{Page: 1, Filter: "VIDEO"}, 20)
	require.NoError(t, err)
	assert.Equal(t, "42", page.Items[0].ID)
}

func TestListArtists_RejectsUnknownStatus(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[{"id":"a1","status":"BANNED"}],"page":1,"total":1,"total_pages":1}}`))
	})

	_, err := repo.ListArtists(context.Background(), search.ViewState{Page: 1}, 20)
	assert.ErrorIs(t, err, models.ErrBadPayload)
	assert.NotErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "status")
}

func TestToggleStatus_ReturnsServerStatus(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/admin/artists/a1/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"status":"SUSPENDED"}}`))
	})

	res, err := repo.ToggleStatus(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", res.ID)
	assert.Equal(t, models.ArtistSuspended, res.Status)
}

func TestSetVerified_SendsFlag(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]bool{"is_verified": true}, body)
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	res, err := repo.SetVerified(context.Background(), "a1", true)
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

func TestApprove_ServerFailure(t *testing.T) {
	repo := newRepo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":"Already moderated"}`))
	})

	err := repo.Approve(context.Background(), "42")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apiclient.StatusOf(err))
	assert.Equal(t, "Already moderated", apiclient.Message(err, ""))
}
