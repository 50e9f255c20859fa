package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ArtistStatus string

const (
	ArtistActive    ArtistStatus = "ACTIVE"
	ArtistSuspended ArtistStatus = "SUSPENDED"
)

// Toggled is the status the flip endpoint is expected to produce.
func (s ArtistStatus) Toggled() ArtistStatus {
	if s == ArtistSuspended {
		return ArtistActive
	}
	return ArtistSuspended
}

type Artist struct {
	ID                string       `json:"id" validate:"required"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Verified          bool         `json:"is_verified"`
	Status            ArtistStatus `json:"status" validate:"required,oneof=ACTIVE SUSPENDED"`
	SubscriptionPrice float64      `json:"subscription_price" validate:"gte=0"`
	RevenueShare      float64      `json:"revenue_share" validate:"gte=0,lte=100"`
	ProfileImageURL   string       `json:"profile_image_url,omitempty"`
	BannerImageURL    string       `json:"banner_image_url,omitempty"`
	Bio               string       `json:"bio,omitempty"`
	SocialLinks       *SocialLinks `json:"social_links,omitempty"`
	AdminRemarks      string       `json:"admin_remarks,omitempty"`
	TotalContent      int          `json:"total_content"`
	SubscriberCount   int          `json:"subscriber_count"`
	CreatedAt         time.Time    `json:"created_at"`
	Content           []Content    `json:"content,omitempty" validate:"dive"`
}

// CanAccessConsole reports whether the artist console may be used.
func (a *Artist) CanAccessConsole() bool {
	return a.Status == ArtistActive && a.Verified
}

// SocialLinks replaces the free-form JSON blob the platform stores.
type SocialLinks struct {
	Instagram *string `json:"instagram,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	YouTube   *string `json:"youtube,omitempty"`
	Website   *string `json:"website,omitempty" validate:"omitempty,url"`
}

// ParseSocialLinks validates social links typed as free text. Blank input means
// no links; malformed JSON or an unknown network is a validation error.
func ParseSocialLinks(raw string) (*SocialLinks, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var links SocialLinks
	if err := dec.Decode(&links); err != nil {
		return nil, fmt.Errorf("%w: social links must be a JSON object of instagram, twitter, facebook, youtube, website: %v", ErrValidation, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: social links must be a single JSON object", ErrValidation)
	}
	if err := Validate(&links); err != nil {
		return nil, err
	}
	return &links, nil
}

// ArtistUpdate is a partial admin edit. Nil fields are left unchanged.
type ArtistUpdate struct {
	Name              *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	Email             *string      `json:"email,omitempty" validate:"omitempty,email"`
	SubscriptionPrice *float64     `json:"subscription_price,omitempty" validate:"omitempty,gte=0"`
	RevenueShare      *float64     `json:"revenue_share,omitempty" validate:"omitempty,gte=0,lte=100"`
	ProfileImageURL   *string      `json:"profile_image_url,omitempty" validate:"omitempty,url"`
	BannerImageURL    *string      `json:"banner_image_url,omitempty" validate:"omitempty,url"`
	Bio               *string      `json:"bio,omitempty"`
	SocialLinks       *SocialLinks `json:"social_links,omitempty"`
	AdminRemarks      *string      `json:"admin_remarks,omitempty"`
}

// Apply writes the set fields onto a.
func (u *ArtistUpdate) Apply(a Artist) Artist {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Email != nil {
		a.Email = *u.Email
	}
	if u.SubscriptionPrice != nil {
		a.SubscriptionPrice = *u.SubscriptionPrice
	}
	if u.RevenueShare != nil {
		a.RevenueShare = *u.RevenueShare
	}
	if u.ProfileImageURL != nil {
		a.ProfileImageURL = *u.ProfileImageURL
	}
	if u.BannerImageURL != nil {
		a.BannerImageURL = *u.BannerImageURL
	}
	if u.Bio != nil {
		a.Bio = *u.Bio
	}
	if u.SocialLinks != nil {
		a.SocialLinks = u.SocialLinks
	}
	if u.AdminRemarks != nil {
		a.AdminRemarks = *u.AdminRemarks
	}
	return a
}

type ArtistCreate struct {
	Name              string       `json:"name" validate:"required"`
	Email             string       `json:"email" validate:"required,email"`
	Password          string       `json:"password" validate:"required,min=8"`
	SubscriptionPrice float64      `json:"subscription_price" validate:"gte=0"`
	RevenueShare      float64      `json:"revenue_share" validate:"gte=0,lte=100"`
	Bio               string       `json:"bio,omitempty"`
	SocialLinks       *SocialLinks `json:"social_links,omitempty"`
	Verified          bool         `json:"is_verified"`
}

// ProfileUpdate is the artist's own edit of their public profile.
type ProfileUpdate struct {
	Name            *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	Bio             *string      `json:"bio,omitempty"`
	ProfileImageURL *string      `json:"profile_image_url,omitempty" validate:"omitempty,url"`
	BannerImageURL  *string      `json:"banner_image_url,omitempty" validate:"omitempty,url"`
	SocialLinks     *SocialLinks `json:"social_links,omitempty"`
}

func (u *ProfileUpdate) Apply(a Artist) Artist {
	return (&ArtistUpdate{
		Name:            u.Name,
		Bio:             u.Bio,
		ProfileImageURL: u.ProfileImageURL,
		BannerImageURL:  u.BannerImageURL,
		SocialLinks:     u.SocialLinks,
	}).Apply(a)
}

type Pricing struct {
	SubscriptionPrice float64 `json:"subscription_price" validate:"gte=0"`
	RevenueShare      float64 `json:"revenue_share" validate:"gte=0,lte=100"`
	Currency          string  `json:"currency,omitempty"`
}

type PricingUpdate struct {
	SubscriptionPrice float64 `json:"subscription_price" validate:"gt=0,lte=1000"`
}

// StatusResult is the answer of the status flip endpoint.
type StatusResult struct {
	ID     string       `json:"id"`
	Status ArtistStatus `json:"status" validate:"required,oneof=ACTIVE SUSPENDED"`
}

type VerifiedResult struct {
	ID       string `json:"id"`
	Verified bool   `json:"is_verified"`
}
