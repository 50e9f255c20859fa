package entity

import (
	"time"

	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/search"
)

// ArtistList is the artists page: the view it was loaded for, the rows and the
// rows that have an action in flight.
type ArtistList struct {
	View  search.ViewState           `json:"view"`
	Query string                     `json:"query"`
	Page  models.Page[models.Artist] `json:"page"`
	Busy  []string                   `json:"busy"`
}

type PendingList struct {
	View  search.ViewState            `json:"view"`
	Query string                      `json:"query"`
	Page  models.Page[models.Content] `json:"page"`
	Busy  []string                    `json:"busy"`
}

type ArtistDetail struct {
	Artist      models.Artist `json:"artist"`
	ArtistBusy  bool          `json:"artist_busy"`
	ContentBusy []string      `json:"content_busy"`
}

// Session describes the logged in admin.
type Session struct {
	UserID    string     `json:"user_id"`
	Role      string     `json:"role"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// MutationOutcome is returned for every row action.
type MutationOutcome struct {
	ID       string         `json:"mutation_id"`
	Action   string         `json:"action"`
	EntityID string         `json:"entity_id"`
	Phase    mutation.Phase `json:"phase"`
	Message  string         `json:"message,omitempty"`
	Result   interface{}    `json:"result,omitempty"`
	Duration string         `json:"duration"`
}

func OutcomeOf(rec *mutation.Record) *MutationOutcome {
	return &MutationOutcome{
		ID:       rec.ID,
		Action:   rec.Action,
		EntityID: rec.EntityID,
		Phase:    rec.Phase,
		Message:  rec.Message,
		Result:   rec.Result,
		Duration: rec.Duration.String(),
	}
}
