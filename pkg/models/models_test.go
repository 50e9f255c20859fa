package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistStatus_Toggled(t *testing.T) {
	assert.Equal(t, ArtistSuspended, ArtistActive.Toggled())
	assert.Equal(t, ArtistActive, ArtistSuspended.Toggled())
}

func TestArtist_CanAccessConsole(t *testing.T) {
	assert.True(t, (&Artist{Status: ArtistActive, Verified: true}).CanAccessConsole())
	assert.False(t, (&Artist{Status: ArtistSuspended, Verified: true}).CanAccessConsole())
	assert.False(t, (&Artist{Status: ArtistActive}).CanAccessConsole())
}

func TestParseSocialLinks(t *testing.T) {
	links, err := ParseSocialLinks(`{"instagram":"@nova","website":"https://nova.example"}`)
	require.NoError(t, err)
	require.NotNil(t, links.Instagram)
	assert.Equal(t, "@nova", *links.Instagram)
	assert.Nil(t, links.Twitter)

	links, err = ParseSocialLinks("   ")
	assert.NoError(t, err)
	assert.Nil(t, links)
}

func TestParseSocialLinks_Rejects(t *testing.T) {
	cases := map[string]string{
		"malformed":   `{"instagram": "@nova"`,
		"unknown key": `{"myspace":"nova"}`,
		"not object":  `["@nova"]`,
		"two objects": `{} {}`,
		"bad website": `{"website":"not a url"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSocialLinks(raw)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestArtistUpdate_Apply(t *testing.T) {
	name := "Nova"
	price := 4.99
	a := Artist{ID: "a1", Name: "Old", Bio: "keep", SubscriptionPrice: 1}

	got := (&ArtistUpdate{Name: &name, SubscriptionPrice: &price}).Apply(a)

	assert.Equal(t, "Nova", got.Name)
	assert.Equal(t, 4.99, got.SubscriptionPrice)
	assert.Equal(t, "keep", got.Bio)
	assert.Equal(t, "Old", a.Name)
}

func TestValidate_ServerPayloads(t *testing.T) {
	var page Page[Content]
	require.NoError(t, json.Unmarshal([]byte(`{"items":[{"id":"c1","type":"AUDIO","status":"PENDING"}],"page":1,"limit":20,"total":1,"total_pages":1}`), &page))
	assert.NoError(t, Validate(&page))

	page.Items = append(page.Items, Content{ID: "c2", Type: "PODCAST", Status: ContentPending})
	err := Validate(&page)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "type")

	assert.ErrorIs(t, Validate(&Artist{Status: ArtistActive}), ErrValidation)
	assert.ErrorIs(t, Validate(&StatusResult{ID: "a1", Status: "BANNED"}), ErrValidation)
}

func TestValidate_Input(t *testing.T) {
	assert.NoError(t, Validate(&LoginRequest{Email: "admin@fanvault.io", Password: "x"}))
	assert.ErrorIs(t, Validate(&LoginRequest{Email: "nope", Password: "x"}), ErrValidation)
	assert.ErrorIs(t, Validate(&PricingUpdate{SubscriptionPrice: 0}), ErrValidation)

	share := 120.0
	err := Validate(&ArtistUpdate{RevenueShare: &share})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "revenue_share")
}

func TestBadPayload(t *testing.T) {
	err := BadPayload(Validate(&StatusResult{ID: "a1", Status: "BANNED"}))
	assert.ErrorIs(t, err, ErrBadPayload)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "unexpected server payload: status must be one of ACTIVE SUSPENDED", err.Error())

	err = BadPayload(ValidateEach([]Content{{ID: "1", Type: "PODCAST", Status: ContentPending}}))
	assert.ErrorIs(t, err, ErrBadPayload)
	assert.Contains(t, err.Error(), "item 0: type")
}

func TestWithoutAndMap(t *testing.T) {
	p := Page[Content]{Items: []Content{{ID: "1"}, {ID: "42"}, {ID: "3"}}, Total: 3}

	got := Without(p, func(c Content) bool { return c.ID == "42" })
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Total)
	assert.Len(t, p.Items, 3)

	same := Without(p, func(c Content) bool { return c.ID == "missing" })
	assert.Equal(t, 3, same.Total)

	mapped := Map(p, func(c Content) Content { c.Status = ContentPublished; return c })
	assert.Equal(t, ContentPublished, mapped.Items[0].Status)
	assert.Empty(t, p.Items[0].Status)
}

func TestWithout_LastItemOfPageShrinksPageCount(t *testing.T) {
	p := Page[Content]{Items: []Content{{ID: "41"}}, Page: 3, Limit: 20, Total: 41, TotalPages: 3}

	got := Without(p, func(c Content) bool { return c.ID == "41" })
	assert.Equal(t, 40, got.Total)
	assert.Equal(t, 2, got.TotalPages)

	only := Page[Content]{Items: []Content{{ID: "1"}}, Page: 1, Limit: 20, Total: 1, TotalPages: 1}
	got = Without(only, func(c Content) bool { return true })
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 1, got.TotalPages)
}

func TestParseMetric(t *testing.T) {
	m, ok := ParseMetric("plays")
	assert.True(t, ok)
	assert.Equal(t, MetricPlays, m)

	_, ok = ParseMetric("likes")
	assert.False(t, ok)
}

func TestValidateEach(t *testing.T) {
	items := []Content{
		{ID: "1", Type: ContentAudio, Status: ContentPublished},
		{ID: "2", Type: "PODCAST", Status: ContentPending},
	}
	err := ValidateEach(items)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "item 1")

	assert.NoError(t, ValidateEach(items[:1]))
	assert.NoError(t, ValidateEach([]Content(nil)))
}
