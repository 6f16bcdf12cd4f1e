package domain

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxBannerTextLength bounds banner header and description.
const MaxBannerTextLength = 100

// Banner is a promotional block shown on the storefront.
type Banner struct {
	ID          int64     `json:"id"`
	Header      string    `json:"header"`
	Description string    `json:"description"`
	IsShow      bool      `json:"is_show"`
	Image       string    `json:"image"`
	ProductIDs  []int64   `json:"products"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BannerPatch carries the fields of a create or partial update request.
// A non-nil ProductIDs replaces the whole product set.
type BannerPatch struct {
	Header      *string
	Description *string
	IsShow      *bool
	Image       *string
	ProductIDs  *[]int64
}

// NewBanner creates a banner with the given fields applied.
func NewBanner(patch BannerPatch, now time.Time) (*Banner, error) {
	b := &Banner{ProductIDs: []int64{}, CreatedAt: now.UTC()}
	b.Apply(patch, now)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Apply copies every non-nil field of patch onto the banner.
func (b *Banner) Apply(patch BannerPatch, now time.Time) {
	if patch.Header != nil {
		b.Header = strings.TrimSpace(*patch.Header)
	}
	if patch.Description != nil {
		b.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsShow != nil {
		b.IsShow = *patch.IsShow
	}
	if patch.Image != nil {
		b.Image = *patch.Image
	}
	if patch.ProductIDs != nil {
		ids := slices.Clone(*patch.ProductIDs)
		slices.Sort(ids)
		b.ProductIDs = slices.Compact(ids)
	}
	b.UpdatedAt = now.UTC()
}

// Validate checks if the Banner has valid data.
func (b *Banner) Validate() error {
	switch {
	case b.Header == "":
		return NewValidationError("header", "cannot be empty")
	case utf8.RuneCountInString(b.Header) > MaxBannerTextLength:
		return NewValidationError("header", "must be at most 100 characters long")
	case b.Description == "":
		return NewValidationError("description", "cannot be empty")
	case utf8.RuneCountInString(b.Description) > MaxBannerTextLength:
		return NewValidationError("description", "must be at most 100 characters long")
	}
	for _, id := range b.ProductIDs {
		if id <= 0 {
			return NewValidationError("products", "contains an invalid product id")
		}
	}
	return nil
}
