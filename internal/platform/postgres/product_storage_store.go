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

const productStorageColumns = `id, storage_id, product_id, count_product, created_at, updated_at`

// PostgresProductStorageStore implements store.ProductStorageStore on PostgreSQL.
type PostgresProductStorageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStorageStore creates a new PostgresProductStorageStore.
func NewPostgresProductStorageStore(db store.DBTX, logger *slog.Logger) *PostgresProductStorageStore {
	return &PostgresProductStorageStore{db: db, logger: componentLogger(logger, "product_storage_store")}
}

var _ store.ProductStorageStore = (*PostgresProductStorageStore)(nil)

// WithTx implements store.ProductStorageStore.WithTx
func (s *PostgresProductStorageStore) WithTx(tx *sql.Tx) store.ProductStorageStore {
	return &PostgresProductStorageStore{db: tx, logger: s.logger}
}

func scanProductStorage(row rowScanner) (*domain.ProductStorage, error) {
	var ps domain.ProductStorage
	err := row.Scan(&ps.ID, &ps.StorageID, &ps.ProductID, &ps.CountProduct, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

// Create implements store.ProductStorageStore.Create
func (s *PostgresProductStorageStore) Create(ctx context.Context, ps *domain.ProductStorage) error {
	query := `
		INSERT INTO product_storages (storage_id, product_id, count_product, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		ps.StorageID, ps.ProductID, ps.CountProduct, ps.CreatedAt, ps.UpdatedAt).Scan(&ps.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to create product storage",
			slog.Int64("storage_id", ps.StorageID),
			slog.Int64("product_id", ps.ProductID),
			slog.String("error", redact.Error(err)))
		return mapEntityError(err, nil, store.ErrProductStorageExists)
	}
	return nil
}

// GetByID implements store.ProductStorageStore.GetByID
func (s *PostgresProductStorageStore) GetByID(ctx context.Context, id int64) (*domain.ProductStorage, error) {
	query := `SELECT ` + productStorageColumns + ` FROM product_storages WHERE id = $1`
	ps, err := scanProductStorage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapEntityError(err, store.ErrProductStorageNotFound, nil)
	}
	return ps, nil
}

// List implements store.ProductStorageStore.List
func (s *PostgresProductStorageStore) List(ctx context.Context) ([]*domain.ProductStorage, error) {
	return s.query(ctx, `SELECT `+productStorageColumns+` FROM product_storages ORDER BY id`)
}

// ListByStorage implements store.ProductStorageStore.ListByStorage
func (s *PostgresProductStorageStore) ListByStorage(ctx context.Context, storageID int64) ([]*domain.ProductStorage, error) {
	return s.query(ctx,
		`SELECT `+productStorageColumns+` FROM product_storages WHERE storage_id = $1 ORDER BY id`,
		storageID)
}

func (s *PostgresProductStorageStore) query(ctx context.Context, query string, args ...any) ([]*domain.ProductStorage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := []*domain.ProductStorage{}
	for rows.Next() {
		ps, err := scanProductStorage(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, ps)
	}
	return items, MapError(rows.Err())
}

// Update implements store.ProductStorageStore.Update
func (s *PostgresProductStorageStore) Update(ctx context.Context, ps *domain.ProductStorage) error {
	query := `
		UPDATE product_storages
		SET storage_id = $1, product_id = $2, count_product = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		ps.StorageID, ps.ProductID, ps.CountProduct, ps.UpdatedAt, ps.ID)
	if err != nil {
		return mapEntityError(err, nil, store.ErrProductStorageExists)
	}
	return CheckRowsAffected(result, store.ErrProductStorageNotFound)
}

// Delete implements store.ProductStorageStore.Delete
func (s *PostgresProductStorageStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM product_storages WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProductStorageNotFound)
}
