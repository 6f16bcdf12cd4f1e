package domain

import (
	"strings"
	"time"
)

// Storage is a warehouse or shop holding stock.
type Storage struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Coordinates string    `json:"coordinates"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StoragePatch carries the fields of a create or partial update request.
type StoragePatch struct {
	Name        *string
	Location    *string
	Coordinates *string
}

// NewStorage creates a storage with the given fields applied.
func NewStorage(patch StoragePatch, now time.Time) (*Storage, error) {
	s := &Storage{CreatedAt: now.UTC()}
	s.Apply(patch, now)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply copies every non-nil field of patch onto the storage.
func (s *Storage) Apply(patch StoragePatch, now time.Time) {
	if patch.Name != nil {
		s.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Location != nil {
		s.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Coordinates != nil {
		s.Coordinates = strings.TrimSpace(*patch.Coordinates)
	}
	s.UpdatedAt = now.UTC()
}

// Validate checks if the Storage has valid data.
func (s *Storage) Validate() error {
	switch {
	case s.Name == "":
		return NewValidationError("name", "cannot be empty")
	case tooLong(s.Name, 255):
		return NewValidationError("name", "must be at most 255 characters long")
	case s.Location == "":
		return NewValidationError("location", "cannot be empty")
	case tooLong(s.Location, 255):
		return NewValidationError("location", "must be at most 255 characters long")
	case tooLong(s.Coordinates, 255):
		return NewValidationError("coordinates", "must be at most 255 characters long")
	}
	return nil
}

// ProductStorage is the stock of one product held in one storage.
type ProductStorage struct {
	ID           int64     `json:"id"`
	StorageID    int64     `json:"storage_id"`
	ProductID    int64     `json:"product_id"`
	CountProduct int       `json:"count_product"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductStoragePatch carries the fields of a create or partial update request.
type ProductStoragePatch struct {
	StorageID    *int64
	ProductID    *int64
	CountProduct *int
}

// NewProductStorage creates a stock record with the given fields applied.
func NewProductStorage(patch ProductStoragePatch, now time.Time) (*ProductStorage, error) {
	ps := &ProductStorage{CreatedAt: now.UTC()}
	ps.Apply(patch, now)
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// Apply copies every non-nil field of patch onto the stock record.
func (ps *ProductStorage) Apply(patch ProductStoragePatch, now time.Time) {
	if patch.StorageID != nil {
		ps.StorageID = *patch.StorageID
	}
	if patch.ProductID != nil {
		ps.ProductID = *patch.ProductID
	}
	if patch.CountProduct != nil {
		ps.CountProduct = *patch.CountProduct
	}
	ps.UpdatedAt = now.UTC()
}

// Validate checks if the ProductStorage has valid data.
func (ps *ProductStorage) Validate() error {
	switch {
	case ps.StorageID <= 0:
		return NewValidationError("storage_id", "is required")
	case ps.ProductID <= 0:
		return NewValidationError("product_id", "is required")
	case ps.CountProduct < 0:
		return NewValidationError("count_product", "cannot be negative")
	}
	return nil
}
