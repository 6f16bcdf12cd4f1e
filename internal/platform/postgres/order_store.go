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

const orderColumns = `id, user_id, status, price, created_at, updated_at`

// PostgresOrderStore implements store.OrderStore on PostgreSQL.
type PostgresOrderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOrderStore creates a new PostgresOrderStore.
func NewPostgresOrderStore(db store.DBTX, logger *slog.Logger) *PostgresOrderStore {
	return &PostgresOrderStore{db: db, logger: componentLogger(logger, "order_store")}
}

var _ store.OrderStore = (*PostgresOrderStore)(nil)

// WithTx implements store.OrderStore.WithTx
func (s *PostgresOrderStore) WithTx(tx *sql.Tx) store.OrderStore {
	return &PostgresOrderStore{db: tx, logger: s.logger}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Price, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create implements store.OrderStore.Create
func (s *PostgresOrderStore) Create(ctx context.Context, o *domain.Order) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO orders (user_id, status, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query, o.UserID, o.Status, o.Price, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		log.Warn("failed to create order",
			slog.Int64("user_id", o.UserID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	log.Info("order created", slog.Int64("order_id", o.ID), slog.Int64("user_id", o.UserID))
	return nil
}

// GetByID implements store.OrderStore.GetByID
func (s *PostgresOrderStore) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapEntityError(err, store.ErrOrderNotFound, nil)
	}
	return o, nil
}

// List implements store.OrderStore.List
func (s *PostgresOrderStore) List(ctx context.Context) ([]*domain.Order, error) {
	return s.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
}

// ListByUser implements store.OrderStore.ListByUser
func (s *PostgresOrderStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID)
}

func (s *PostgresOrderStore) query(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query orders",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	orders := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, MapError(err)
		}
		orders = append(orders, o)
	}
	return orders, MapError(rows.Err())
}

// Update implements store.OrderStore.Update
func (s *PostgresOrderStore) Update(ctx context.Context, o *domain.Order) error {
	query := `UPDATE orders SET user_id = $1, status = $2, price = $3, updated_at = $4 WHERE id = $5`
	result, err := s.db.ExecContext(ctx, query, o.UserID, o.Status, o.Price, o.UpdatedAt, o.ID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrOrderNotFound)
}

// Delete implements store.OrderStore.Delete
func (s *PostgresOrderStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrOrderNotFound)
}
