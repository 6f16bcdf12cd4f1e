package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/generation"
	"github.com/phrazzld/storefront-api/internal/media"
	"github.com/phrazzld/storefront-api/internal/metrics"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MaxBulkProducts bounds the number of ids accepted by GetProducts.
const MaxBulkProducts = 500

// CategoryInput carries a category create or update request. The parent is
// given either by ParentID or by ParentName.
type CategoryInput struct {
	Patch      domain.CategoryPatch
	ParentID   domain.OptionalID
	ParentName *string
}

// CatalogService manages categories and products.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	ListChildren(ctx context.Context, id int64) ([]*domain.Category, error)
	CountChildren(ctx context.Context, id int64) (int, error)
	UploadCategoryImage(ctx context.Context, id int64, contentType string, r io.Reader) (*domain.Category, error)

	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProducts(ctx context.Context, ids []int64) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, patch domain.ProductPatch) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	UploadProductImage(ctx context.Context, id int64, contentType string, r io.Reader) (*domain.Product, error)
}

// CatalogServiceImpl implements CatalogService.
type CatalogServiceImpl struct {
	categories store.CategoryStore
	products   store.ProductStore
	db         store.TxBeginner
	generator  generation.DescriptionGenerator
	images     media.ImageStore
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

var _ CatalogService = (*CatalogServiceImpl)(nil)

// NewCatalogService creates a CatalogService. A nil generator disables
// description generation; m may be nil.
func NewCatalogService(
	categories store.CategoryStore,
	products store.ProductStore,
	db store.TxBeginner,
	generator generation.DescriptionGenerator,
	images media.ImageStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) *CatalogServiceImpl {
	if generator == nil {
		generator = generation.Disabled{}
	}
	return &CatalogServiceImpl{
		categories: categories,
		products:   products,
		db:         db,
		generator:  generator,
		images:     images,
		metrics:    m,
		logger:     logger.With("component", "catalog_service"),
		now:        time.Now,
	}
}

func (s *CatalogServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// ListCategories implements CatalogService.
func (s *CatalogServiceImpl) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory implements CatalogService.
func (s *CatalogServiceImpl) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// resolveParent returns the requested parent and whether the request
// mentioned a parent at all. A nil parent with set=true clears it.
func resolveParent(ctx context.Context, categories store.CategoryStore, in CategoryInput) (*int64, bool, error) {
	if in.ParentName != nil {
		name := strings.TrimSpace(*in.ParentName)
		if name == "" {
			return nil, true, nil
		}
		parent, err := categories.GetByName(ctx, name)
		if err != nil {
			if store.IsNotFoundError(err) {
				return nil, false, fmt.Errorf("%w: %q", ErrParentNotFound, name)
			}
			return nil, false, err
		}
		if in.ParentID.Valid && in.ParentID.Value != parent.ID {
			return nil, false, ErrAmbiguousParent
		}
		return &parent.ID, true, nil
	}

	if !in.ParentID.Set {
		return nil, false, nil
	}
	if !in.ParentID.Valid {
		return nil, true, nil
	}
	if _, err := categories.GetByID(ctx, in.ParentID.Value); err != nil {
		if store.IsNotFoundError(err) {
			return nil, false, fmt.Errorf("%w: id %d", ErrParentNotFound, in.ParentID.Value)
		}
		return nil, false, err
	}
	return in.ParentID.Ptr(), true, nil
}

// CreateCategory implements CatalogService.
func (s *CatalogServiceImpl) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	category, err := domain.NewCategory(in.Patch, s.now())
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		categories := s.categories.WithTx(tx)
		parentID, _, err := resolveParent(ctx, categories, in)
		if err != nil {
			return err
		}
		category.ParentID = parentID
		return categories.Create(ctx, category)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "category created", "category_id", category.ID)
	return category, nil
}

// UpdateCategory implements CatalogService. The cycle check and the write
// run in one transaction. A move first locks the category and the new
// parent's ancestor chain, so concurrent moves cannot together form a cycle.
func (s *CatalogServiceImpl) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error) {
	var category *domain.Category
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		categories := s.categories.WithTx(tx)

		var err error
		category, err = categories.GetByID(ctx, id)
		if err != nil {
			return err
		}

		parentID, set, err := resolveParent(ctx, categories, in)
		if err != nil {
			return err
		}
		if set {
			if parentID != nil {
				if *parentID == id {
					return ErrCategoryCycle
				}
				if err := categories.LockForUpdate(ctx, id, *parentID); err != nil {
					return err
				}
				descendant, err := categories.IsDescendant(ctx, id, *parentID)
				if err != nil {
					return err
				}
				if descendant {
					return ErrCategoryCycle
				}
			}
			category.ParentID = parentID
		}

		category.Apply(in.Patch, s.now())
		if err := category.Validate(); err != nil {
			return err
		}
		return categories.Update(ctx, category)
	})
	if err != nil {
		if errors.Is(err, ErrCategoryCycle) {
			s.log(ctx).DebugContext(ctx, "rejected cyclic parent", "category_id", id)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory implements CatalogService.
func (s *CatalogServiceImpl) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.log(ctx).InfoContext(ctx, "category deleted", "category_id", id)
	return nil
}

// ListChildren implements CatalogService.
func (s *CatalogServiceImpl) ListChildren(ctx context.Context, id int64) ([]*domain.Category, error) {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.categories.ListChildren(ctx, id)
}

// CountChildren implements CatalogService.
func (s *CatalogServiceImpl) CountChildren(ctx context.Context, id int64) (int, error) {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return s.categories.CountChildren(ctx, id)
}

// UploadCategoryImage implements CatalogService.
func (s *CatalogServiceImpl) UploadCategoryImage(
	ctx context.Context,
	id int64,
	contentType string,
	r io.Reader,
) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := saveImage(ctx, s.images, "categories", id, contentType, r)
	if err != nil {
		return nil, err
	}
	category.Apply(domain.CategoryPatch{Image: &url}, s.now())
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to save category image: %w", err)
	}
	return category, nil
}

// ListProducts implements CatalogService.
func (s *CatalogServiceImpl) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

// GetProduct implements CatalogService.
func (s *CatalogServiceImpl) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetProducts implements CatalogService.
func (s *CatalogServiceImpl) GetProducts(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("ids", "cannot be empty")
	}
	if len(ids) > MaxBulkProducts {
		return nil, domain.NewValidationError("ids", fmt.Sprintf("at most %d ids are allowed", MaxBulkProducts))
	}
	return s.products.GetByIDs(ctx, ids)
}

// CreateProduct implements CatalogService. A missing description is
// generated; a generator failure leaves it empty.
func (s *CatalogServiceImpl) CreateProduct(ctx context.Context, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := domain.NewProduct(patch, s.now())
	if err != nil {
		return nil, err
	}

	if product.Description == "" {
		product.Description = s.describe(ctx, product.Name)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "product created", "product_id", product.ID)
	return product, nil
}

func (s *CatalogServiceImpl) describe(ctx context.Context, name string) string {
	description, err := s.generator.GenerateDescription(ctx, name)
	if err != nil {
		s.metrics.DescriptionGenerated(false)
		s.log(ctx).WarnContext(ctx, "description generation failed", "error", redact.Error(err))
		return ""
	}
	if description != "" {
		s.metrics.DescriptionGenerated(true)
	}
	return description
}

// UpdateProduct implements CatalogService.
func (s *CatalogServiceImpl) UpdateProduct(
	ctx context.Context,
	id int64,
	patch domain.ProductPatch,
) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Apply(patch, s.now())
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct implements CatalogService.
func (s *CatalogServiceImpl) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// UploadProductImage implements CatalogService.
func (s *CatalogServiceImpl) UploadProductImage(
	ctx context.Context,
	id int64,
	contentType string,
	r io.Reader,
) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := saveImage(ctx, s.images, "products", id, contentType, r)
	if err != nil {
		return nil, err
	}
	product.Apply(domain.ProductPatch{Image: &url}, s.now())
	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}
	return product, nil
}

func saveImage(
	ctx context.Context,
	images media.ImageStore,
	kind string,
	id int64,
	contentType string,
	r io.Reader,
) (string, error) {
	key, err := media.ObjectKey(kind, id, contentType)
	if err != nil {
		return "", err
	}
	url, err := images.Save(ctx, key, contentType, r)
	if err != nil {
		return "", fmt.Errorf("failed to store %s image: %w", kind, err)
	}
	return url, nil
}
