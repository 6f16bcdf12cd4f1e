package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// InventoryService manages storages and the stock held in each.
type InventoryService interface {
	ListStorages(ctx context.Context) ([]*domain.Storage, error)
	GetStorage(ctx context.Context, id int64) (*domain.Storage, error)
	CreateStorage(ctx context.Context, patch domain.StoragePatch) (*domain.Storage, error)
	UpdateStorage(ctx context.Context, id int64, patch domain.StoragePatch) (*domain.Storage, error)
	DeleteStorage(ctx context.Context, id int64) error

	ListProductStorages(ctx context.Context) ([]*domain.ProductStorage, error)
	ListStorageProducts(ctx context.Context, storageID int64) ([]*domain.ProductStorage, error)
	GetProductStorage(ctx context.Context, id int64) (*domain.ProductStorage, error)
	CreateProductStorage(ctx context.Context, patch domain.ProductStoragePatch) (*domain.ProductStorage, error)
	UpdateProductStorage(
		ctx context.Context,
		id int64,
		patch domain.ProductStoragePatch,
	) (*domain.ProductStorage, error)
	DeleteProductStorage(ctx context.Context, id int64) error
}

// InventoryServiceImpl implements InventoryService.
type InventoryServiceImpl struct {
	storages store.StorageStore
	stock    store.ProductStorageStore
	logger   *slog.Logger
	now      func() time.Time
}

var _ InventoryService = (*InventoryServiceImpl)(nil)

// NewInventoryService creates an InventoryService.
func NewInventoryService(
	storages store.StorageStore,
	stock store.ProductStorageStore,
	logger *slog.Logger,
) *InventoryServiceImpl {
	return &InventoryServiceImpl{
		storages: storages,
		stock:    stock,
		logger:   logger.With("component", "inventory_service"),
		now:      time.Now,
	}
}

// ListStorages implements InventoryService.
func (s *InventoryServiceImpl) ListStorages(ctx context.Context) ([]*domain.Storage, error) {
	return s.storages.List(ctx)
}

// GetStorage implements InventoryService.
func (s *InventoryServiceImpl) GetStorage(ctx context.Context, id int64) (*domain.Storage, error) {
	return s.storages.GetByID(ctx, id)
}

// CreateStorage implements InventoryService.
func (s *InventoryServiceImpl) CreateStorage(ctx context.Context, patch domain.StoragePatch) (*domain.Storage, error) {
	storage, err := domain.NewStorage(patch, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.storages.Create(ctx, storage); err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "storage created", "storage_id", storage.ID)
	return storage, nil
}

// UpdateStorage implements InventoryService.
func (s *InventoryServiceImpl) UpdateStorage(
	ctx context.Context,
	id int64,
	patch domain.StoragePatch,
) (*domain.Storage, error) {
	storage, err := s.storages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	storage.Apply(patch, s.now())
	if err := storage.Validate(); err != nil {
		return nil, err
	}
	if err := s.storages.Update(ctx, storage); err != nil {
		return nil, fmt.Errorf("failed to update storage: %w", err)
	}
	return storage, nil
}

// DeleteStorage implements InventoryService.
func (s *InventoryServiceImpl) DeleteStorage(ctx context.Context, id int64) error {
	if err := s.storages.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete storage: %w", err)
	}
	return nil
}

// ListProductStorages implements InventoryService.
func (s *InventoryServiceImpl) ListProductStorages(ctx context.Context) ([]*domain.ProductStorage, error) {
	return s.stock.List(ctx)
}

// ListStorageProducts implements InventoryService.
func (s *InventoryServiceImpl) ListStorageProducts(
	ctx context.Context,
	storageID int64,
) ([]*domain.ProductStorage, error) {
	if _, err := s.storages.GetByID(ctx, storageID); err != nil {
		return nil, err
	}
	return s.stock.ListByStorage(ctx, storageID)
}

// GetProductStorage implements InventoryService.
func (s *InventoryServiceImpl) GetProductStorage(ctx context.Context, id int64) (*domain.ProductStorage, error) {
	return s.stock.GetByID(ctx, id)
}

// CreateProductStorage implements InventoryService.
func (s *InventoryServiceImpl) CreateProductStorage(
	ctx context.Context,
	patch domain.ProductStoragePatch,
) (*domain.ProductStorage, error) {
	ps, err := domain.NewProductStorage(patch, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.stock.Create(ctx, ps); err != nil {
		return nil, fmt.Errorf("failed to create product storage: %w", err)
	}
	return ps, nil
}

// UpdateProductStorage implements InventoryService.
func (s *InventoryServiceImpl) UpdateProductStorage(
	ctx context.Context,
	id int64,
	patch domain.ProductStoragePatch,
) (*domain.ProductStorage, error) {
	ps, err := s.stock.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ps.Apply(patch, s.now())
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if err := s.stock.Update(ctx, ps); err != nil {
		return nil, fmt.Errorf("failed to update product storage: %w", err)
	}
	return ps, nil
}

// DeleteProductStorage implements InventoryService.
func (s *InventoryServiceImpl) DeleteProductStorage(ctx context.Context, id int64) error {
	if err := s.stock.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product storage: %w", err)
	}
	return nil
}
