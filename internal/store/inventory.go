package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// StorageStore defines the interface for storage location persistence.
type StorageStore interface {
	Create(ctx context.Context, storage *domain.Storage) error
	// GetByID returns ErrStorageNotFound if the storage does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Storage, error)
	List(ctx context.Context) ([]*domain.Storage, error)
	// Update returns ErrStorageNotFound if the storage does not exist.
	Update(ctx context.Context, storage *domain.Storage) error
	// Delete removes the storage and its stock records.
	Delete(ctx context.Context, id int64) error
	WithTx(tx *sql.Tx) StorageStore
}

// ProductStorageStore defines the interface for per-storage stock persistence.
type ProductStorageStore interface {
	// Create returns ErrProductStorageExists if the pair already has a
	// record and ErrInvalidReference if either side does not exist.
	Create(ctx context.Context, ps *domain.ProductStorage) error
	// GetByID returns ErrProductStorageNotFound if the record does not exist.
	GetByID(ctx context.Context, id int64) (*domain.ProductStorage, error)
	List(ctx context.Context) ([]*domain.ProductStorage, error)
	// ListByStorage returns the stock records of one storage.
	ListByStorage(ctx context.Context, storageID int64) ([]*domain.ProductStorage, error)
	Update(ctx context.Context, ps *domain.ProductStorage) error
	Delete(ctx context.Context, id int64) error
	WithTx(tx *sql.Tx) ProductStorageStore
}
