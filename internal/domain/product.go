package domain

import (
	"strings"
	"time"
)

// Product defaults.
const (
	DefaultProductPrice  = 1
	DefaultProductRating = 5.0
	MaxProductRating     = 5.0
)

// Product is a catalog item.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	CategoryID  int64     `json:"category_id"`
	Price       int64     `json:"price"`
	Description string    `json:"description"`
	Count       int       `json:"count"`
	Rating      float64   `json:"rating"`
	SortOrder   int       `json:"sort_order"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductPatch carries the fields of a create or partial update request.
type ProductPatch struct {
	Name        *string
	Brand       *string
	CategoryID  *int64
	Price       *int64
	Description *string
	Count       *int
	Rating      *float64
	SortOrder   *int
	Image       *string
}

// NewProduct creates a product with defaults and the given fields applied.
func NewProduct(patch ProductPatch, now time.Time) (*Product, error) {
	p := &Product{
		Price:     DefaultProductPrice,
		Rating:    DefaultProductRating,
		SortOrder: DefaultSortOrder,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	p.Apply(patch, now)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply copies every non-nil field of patch onto the product.
func (p *Product) Apply(patch ProductPatch, now time.Time) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Brand != nil {
		p.Brand = strings.TrimSpace(*patch.Brand)
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Count != nil {
		p.Count = *patch.Count
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	if patch.SortOrder != nil {
		p.SortOrder = *patch.SortOrder
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	p.UpdatedAt = now.UTC()
}

// Validate checks if the Product has valid data.
func (p *Product) Validate() error {
	switch {
	case p.Name == "":
		return NewValidationError("name", "cannot be empty")
	case tooLong(p.Name, 255):
		return NewValidationError("name", "must be at most 255 characters long")
	case p.Brand == "":
		return NewValidationError("brand", "cannot be empty")
	case tooLong(p.Brand, 255):
		return NewValidationError("brand", "must be at most 255 characters long")
	case p.CategoryID <= 0:
		return NewValidationError("category_id", "is required")
	case p.Price < 0:
		return NewValidationError("price", "cannot be negative")
	case p.Count < 0:
		return NewValidationError("count", "cannot be negative")
	case p.Rating < 0 || p.Rating > MaxProductRating:
		return NewValidationError("rating", "must be between 0 and 5")
	}
	return nil
}
