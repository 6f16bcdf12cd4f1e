package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// OrderStore defines the interface for order persistence.
type OrderStore interface {
	// Create returns ErrInvalidReference if the user does not exist.
	Create(ctx context.Context, order *domain.Order) error
	// GetByID returns ErrOrderNotFound if the order does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	// ListByUser returns the orders placed by one user.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	// Delete removes the order and its lines.
	Delete(ctx context.Context, id int64) error
	WithTx(tx *sql.Tx) OrderStore
}

// OrderedProductStore defines the interface for order line persistence.
type OrderedProductStore interface {
	// Create returns ErrInvalidReference if the order or product does not exist.
	Create(ctx context.Context, op *domain.OrderedProduct) error
	// GetByID returns ErrOrderedProductNotFound if the line does not exist.
	GetByID(ctx context.Context, id int64) (*domain.OrderedProduct, error)
	// GetByOrderAndProduct returns the first line of orderID for productID.
	GetByOrderAndProduct(ctx context.Context, orderID, productID int64) (*domain.OrderedProduct, error)
	List(ctx context.Context) ([]*domain.OrderedProduct, error)
	// ListByOrder returns the lines of one order.
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderedProduct, error)
	Update(ctx context.Context, op *domain.OrderedProduct) error
	Delete(ctx context.Context, id int64) error
	WithTx(tx *sql.Tx) OrderedProductStore
}
