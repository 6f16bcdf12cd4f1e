package domain

import (
	"strings"
	"time"
)

// DefaultSortOrder is the display order given to new categories and products.
const DefaultSortOrder = 1

// Category is a node in the catalog tree. Children are never stored on the
// parent; they are found by querying for ParentID.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	SortOrder int       `json:"sort_order"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryPatch carries the fields of a create or partial update request.
// Parent changes are resolved by the catalog service.
type CategoryPatch struct {
	Name      *string
	SortOrder *int
	Image     *string
}

// NewCategory creates a category with defaults and the given fields applied.
func NewCategory(patch CategoryPatch, now time.Time) (*Category, error) {
	c := &Category{
		SortOrder: DefaultSortOrder,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	c.Apply(patch, now)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply copies every non-nil field of patch onto the category.
func (c *Category) Apply(patch CategoryPatch, now time.Time) {
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.SortOrder != nil {
		c.SortOrder = *patch.SortOrder
	}
	if patch.Image != nil {
		c.Image = *patch.Image
	}
	c.UpdatedAt = now.UTC()
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "cannot be empty")
	}
	if tooLong(c.Name, 255) {
		return NewValidationError("name", "must be at most 255 characters long")
	}
	if c.ID != 0 && c.ParentID != nil && *c.ParentID == c.ID {
		return NewValidationError("parent_id", "a category cannot be its own parent")
	}
	return nil
}
