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

const storageColumns = `id, name, location, coordinates, created_at, updated_at`

// PostgresStorageStore implements store.StorageStore on PostgreSQL.
type PostgresStorageStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStorageStore creates a new PostgresStorageStore.
func NewPostgresStorageStore(db store.DBTX, logger *slog.Logger) *PostgresStorageStore {
	return &PostgresStorageStore{db: db, logger: componentLogger(logger, "storage_store")}
}

var _ store.StorageStore = (*PostgresStorageStore)(nil)

// WithTx implements store.StorageStore.WithTx
func (s *PostgresStorageStore) WithTx(tx *sql.Tx) store.StorageStore {
	return &PostgresStorageStore{db: tx, logger: s.logger}
}

func scanStorage(row rowScanner) (*domain.Storage, error) {
	var st domain.Storage
	if err := row.Scan(&st.ID, &st.Name, &st.Location, &st.Coordinates, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}

// Create implements store.StorageStore.Create
func (s *PostgresStorageStore) Create(ctx context.Context, st *domain.Storage) error {
	query := `
		INSERT INTO storages (name, location, coordinates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		st.Name, st.Location, st.Coordinates, st.CreatedAt, st.UpdatedAt).Scan(&st.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create storage",
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.StorageStore.GetByID
func (s *PostgresStorageStore) GetByID(ctx context.Context, id int64) (*domain.Storage, error) {
	query := `SELECT ` + storageColumns + ` FROM storages WHERE id = $1`
	st, err := scanStorage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapEntityError(err, store.ErrStorageNotFound, nil)
	}
	return st, nil
}

// List implements store.StorageStore.List
func (s *PostgresStorageStore) List(ctx context.Context) ([]*domain.Storage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+storageColumns+` FROM storages ORDER BY id`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	storages := []*domain.Storage{}
	for rows.Next() {
		st, err := scanStorage(rows)
		if err != nil {
			return nil, MapError(err)
		}
		storages = append(storages, st)
	}
	return storages, MapError(rows.Err())
}

// Update implements store.StorageStore.Update
func (s *PostgresStorageStore) Update(ctx context.Context, st *domain.Storage) error {
	query := `
		UPDATE storages SET name = $1, location = $2, coordinates = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query, st.Name, st.Location, st.Coordinates, st.UpdatedAt, st.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update storage",
			slog.Int64("storage_id", st.ID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrStorageNotFound)
}

// Delete implements store.StorageStore.Delete
func (s *PostgresStorageStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM storages WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrStorageNotFound)
}
