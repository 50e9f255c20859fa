package entity

import (
	"time"

	"fanvault-console/pkg/models"
	"fanvault-console/pkg/mutation"
	"fanvault-console/pkg/search"
)

// ContentList is the content history page.
type ContentList struct {
	View  search.ViewState            `json:"view"`
	Query string                      `json:"query"`
	Page  models.Page[models.Content] `json:"page"`
	Busy  []string                    `json:"busy"`
}

type ContentDetail struct {
	Content models.Content `json:"content"`
	Busy    bool           `json:"busy"`
}

// Session describes the logged in artist.
type Session struct {
	UserID    string         `json:"user_id"`
	Role      string         `json:"role"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Artist    *models.Artist `json:"artist,omitempty"`
}

type MutationOutcome struct {
	ID       string         `json:"mutation_id"`
	Action   string         `json:"action"`
	EntityID string         `json:"entity_id"`
	Phase    mutation.Phase `json:"phase"`
	Message  string         `json:"message,omitempty"`
	Duration string         `json:"duration"`
}

func OutcomeOf(rec *mutation.Record) *MutationOutcome {
	return &MutationOutcome{
		ID:       rec.ID,
		Action:   rec.Action,
		EntityID: rec.EntityID,
		Phase:    rec.Phase,
		Message:  rec.Message,
		Duration: rec.Duration.String(),
	}
}
