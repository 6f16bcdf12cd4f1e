package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	// Create saves a new category and sets its ID and timestamps.
	// Returns ErrCategoryNameExists on a duplicate name and
	// ErrInvalidReference when the parent does not exist.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Category, error)

	// GetByName returns ErrCategoryNotFound if no category has that name.
	GetByName(ctx context.Context, name string) (*domain.Category, error)

	// List returns all categories ordered by sort order, then ID.
	List(ctx context.Context) ([]*domain.Category, error)

	// ListChildren returns the direct children of parentID.
	ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error)

	// CountChildren returns the number of direct children of parentID.
	CountChildren(ctx context.Context, parentID int64) (int, error)

	// IsDescendant reports whether candidateID lies in the subtree rooted at
	// ancestorID, excluding ancestorID itself.
	IsDescendant(ctx context.Context, ancestorID, candidateID int64) (bool, error)

	// LockForUpdate row-locks category id together with parentID and every
	// ancestor of parentID until the surrounding transaction ends. Rows are
	// locked in ascending id order. Only meaningful inside a transaction.
	// Returns ErrCategoryNotFound if none of the rows exist.
	LockForUpdate(ctx context.Context, id, parentID int64) error

	// Update writes every mutable column of category.
	// Returns ErrCategoryNotFound if the category does not exist.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category. Children keep existing with a null parent;
	// products in the category are removed with it.
	// Returns ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a CategoryStore bound to tx.
	WithTx(tx *sql.Tx) CategoryStore
}

// ProductStore defines the interface for product persistence.
type ProductStore interface {
	// Create saves a new product and sets its ID and timestamps.
	// Returns ErrProductNameExists on a duplicate name and
	// ErrInvalidReference when the category does not exist.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// GetByIDs returns the products with the given IDs, ordered by ID.
	// Unknown IDs are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error)

	// List returns all products ordered by sort order, then ID.
	List(ctx context.Context) ([]*domain.Product, error)

	// Update writes every mutable column of product.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, product *domain.Product) error

	// Delete returns ErrProductNotFound if the product does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a ProductStore bound to tx.
	WithTx(tx *sql.Tx) ProductStore
}
