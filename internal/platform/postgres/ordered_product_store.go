package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
)

const orderedProductColumns = `id, order_id, product_id, amount, price, created_at, updated_at`

// PostgresOrderedProductStore implements store.OrderedProductStore on PostgreSQL.
type PostgresOrderedProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOrderedProductStore creates a new PostgresOrderedProductStore.
func NewPostgresOrderedProductStore(db store.DBTX, logger *slog.Logger) *PostgresOrderedProductStore {
	return &PostgresOrderedProductStore{db: db, logger: componentLogger(logger, "ordered_product_store")}
}

var _ store.OrderedProductStore = (*PostgresOrderedProductStore)(nil)

// WithTx implements store.OrderedProductStore.WithTx
func (s *PostgresOrderedProductStore) WithTx(tx *sql.Tx) store.OrderedProductStore {
	return &PostgresOrderedProductStore{db: tx, logger: s.logger}
}

func scanOrderedProduct(row rowScanner) (*domain.OrderedProduct, error) {
	var op domain.OrderedProduct
	err := row.Scan(&op.ID, &op.OrderID, &op.ProductID, &op.Amount, &op.Price, &op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// Create implements store.OrderedProductStore.Create
func (s *PostgresOrderedProductStore) Create(ctx context.Context, op *domain.OrderedProduct) error {
	query := `
		INSERT INTO ordered_products (order_id, product_id, amount, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		op.OrderID, op.ProductID, op.Amount, op.Price, op.CreatedAt, op.UpdatedAt).Scan(&op.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to create ordered product",
			slog.Int64("order_id", op.OrderID),
			slog.Int64("product_id", op.ProductID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.OrderedProductStore.GetByID
func (s *PostgresOrderedProductStore) GetByID(ctx context.Context, id int64) (*domain.OrderedProduct, error) {
	query := `SELECT ` + orderedProductColumns + ` FROM ordered_products WHERE id = $1`
	op, err := scanOrderedProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapEntityError(err, store.ErrOrderedProductNotFound, nil)
	}
	return op, nil
}

// GetByOrderAndProduct implements store.OrderedProductStore.GetByOrderAndProduct
func (s *PostgresOrderedProductStore) GetByOrderAndProduct(ctx context.Context, orderID, productID int64) (*domain.OrderedProduct, error) {
	query := `SELECT ` + orderedProductColumns + ` FROM ordered_products
		WHERE order_id = $1 AND product_id = $2 ORDER BY id LIMIT 1`
	op, err := scanOrderedProduct(s.db.QueryRowContext(ctx, query, orderID, productID))
	if err != nil {
		return nil, mapEntityError(err, store.ErrOrderedProductNotFound, nil)
	}
	return op, nil
}

// List implements store.OrderedProductStore.List
func (s *PostgresOrderedProductStore) List(ctx context.Context) ([]*domain.OrderedProduct, error) {
	return s.query(ctx, `SELECT `+orderedProductColumns+` FROM ordered_products ORDER BY id`)
}

// ListByOrder implements store.OrderedProductStore.ListByOrder
func (s *PostgresOrderedProductStore) ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderedProduct, error) {
	return s.query(ctx,
		`SELECT `+orderedProductColumns+` FROM ordered_products WHERE order_id = $1 ORDER BY id`,
		orderID)
}

func (s *PostgresOrderedProductStore) query(ctx context.Context, query string, args ...any) ([]*domain.OrderedProduct, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := []*domain.OrderedProduct{}
	for rows.Next() {
		op, err := scanOrderedProduct(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, op)
	}
	return items, MapError(rows.Err())
}

// Update implements store.OrderedProductStore.Update
func (s *PostgresOrderedProductStore) Update(ctx context.Context, op *domain.OrderedProduct) error {
	query := `
		UPDATE ordered_products
		SET order_id = $1, product_id = $2, amount = $3, price = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		op.OrderID, op.ProductID, op.Amount, op.Price, op.UpdatedAt, op.ID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrOrderedProductNotFound)
}

// Delete implements store.OrderedProductStore.Delete
func (s *PostgresOrderedProductStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ordered_products WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrOrderedProductNotFound)
}
