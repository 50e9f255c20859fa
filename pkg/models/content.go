package models

import "time"

type ContentType string

const (
	ContentAudio ContentType = "AUDIO"
	ContentVideo ContentType = "VIDEO"
)

type ContentStatus string

const (
	ContentPending   ContentStatus = "PENDING"
	ContentPublished ContentStatus = "PUBLISHED"
	ContentRejected  ContentStatus = "REJECTED"
)

type Content struct {
	ID              string        `json:"id" validate:"required"`
	ArtistID        string        `json:"artist_id,omitempty"`
	ArtistName      string        `json:"artist_name,omitempty"`
	Title           string        `json:"title"`
	Type            ContentType   `json:"type" validate:"required,oneof=AUDIO VIDEO"`
	Genre           string        `json:"genre,omitempty"`
	ThumbnailURL    string        `json:"thumbnail_url,omitempty"`
	MediaURL        string        `json:"media_url,omitempty"`
	Status          ContentStatus `json:"status" validate:"required,oneof=PENDING PUBLISHED REJECTED"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	PlayCount       int           `json:"play_count"`
}

// Page is one page of a server list.
type Page[T any] struct {
	Items      []T `json:"items" validate:"dive"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Without returns a copy of p without the item matching id. Total drops only
// when something was removed.
func Without[T any](p Page[T], match func(T) bool) Page[T] {
	items := make([]T, 0, len(p.Items))
	for _, item := range p.Items {
		if !match(item) {
			items = append(items, item)
		}
	}
	if removed := len(p.Items) - len(items); removed > 0 && p.Total >= removed {
		p.Total -= removed
		if p.Limit > 0 {
			p.TotalPages = max(1, (p.Total+p.Limit-1)/p.Limit)
		}
	}
	p.Items = items
	return p
}

// Map returns a copy of p with fn applied to every item.
func Map[T any](p Page[T], fn func(T) T) Page[T] {
	items := make([]T, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	p.Items = items
	return p
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}
