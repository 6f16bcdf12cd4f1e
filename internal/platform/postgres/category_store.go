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

const categoryColumns = `id, name, parent_id, sort_order, image, created_at, updated_at`

// PostgresCategoryStore implements store.CategoryStore on PostgreSQL.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgresCategoryStore.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	return &PostgresCategoryStore{db: db, logger: componentLogger(logger, "category_store")}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{db: tx, logger: s.logger}
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	var parentID sql.NullInt64
	if err := row.Scan(&c.ID, &c.Name, &parentID, &c.SortOrder, &c.Image, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	return &c, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO categories (name, parent_id, sort_order, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		c.Name, nullInt64(c.ParentID), c.SortOrder, c.Image, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		log.Warn("failed to create category", slog.String("error", redact.Error(err)))
		return mapEntityError(err, nil, store.ErrCategoryNameExists)
	}

	log.Info("category created", slog.Int64("category_id", c.ID))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapEntityError(err, store.ErrCategoryNotFound, nil)
	}
	return c, nil
}

// GetByName implements store.CategoryStore.GetByName
func (s *PostgresCategoryStore) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE name = $1`
	c, err := scanCategory(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, mapEntityError(err, store.ErrCategoryNotFound, nil)
	}
	return c, nil
}

// List implements store.CategoryStore.List
func (s *PostgresCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	return s.query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, id`)
}

// ListChildren implements store.CategoryStore.ListChildren
func (s *PostgresCategoryStore) ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error) {
	return s.query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY sort_order, id`,
		parentID)
}

func (s *PostgresCategoryStore) query(ctx context.Context, query string, args ...any) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query categories",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, MapError(err)
		}
		categories = append(categories, c)
	}
	return categories, MapError(rows.Err())
}

// CountChildren implements store.CategoryStore.CountChildren
func (s *PostgresCategoryStore) CountChildren(ctx context.Context, parentID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, parentID).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// IsDescendant implements store.CategoryStore.IsDescendant
func (s *PostgresCategoryStore) IsDescendant(ctx context.Context, ancestorID, candidateID int64) (bool, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM categories WHERE parent_id = $1
			UNION
			SELECT c.id FROM categories c JOIN subtree st ON c.parent_id = st.id
		)
		SELECT EXISTS (SELECT 1 FROM subtree WHERE id = $2)
	`
	var found bool
	if err := s.db.QueryRowContext(ctx, query, ancestorID, candidateID).Scan(&found); err != nil {
		return false, MapError(err)
	}
	return found, nil
}

// LockForUpdate implements store.CategoryStore.LockForUpdate
func (s *PostgresCategoryStore) LockForUpdate(ctx context.Context, id, parentID int64) error {
	query := `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_id FROM categories WHERE id = $2
			UNION
			SELECT c.id, c.parent_id FROM categories c JOIN ancestors a ON c.id = a.parent_id
		)
		SELECT id FROM categories
		WHERE id = $1 OR id IN (SELECT id FROM ancestors)
		ORDER BY id
		FOR UPDATE
	`
	rows, err := s.db.QueryContext(ctx, query, id, parentID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to lock categories",
			slog.Int64("category_id", id),
			slog.Int64("parent_id", parentID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	defer func() { _ = rows.Close() }()

	locked := 0
	for rows.Next() {
		var lockedID int64
		if err := rows.Scan(&lockedID); err != nil {
			return MapError(err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return MapError(err)
	}
	if locked == 0 {
		return store.ErrCategoryNotFound
	}
	return nil
}

// Update implements store.CategoryStore.Update
func (s *PostgresCategoryStore) Update(ctx context.Context, c *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE categories
		SET name = $1, parent_id = $2, sort_order = $3, image = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		c.Name, nullInt64(c.ParentID), c.SortOrder, c.Image, c.UpdatedAt, c.ID)
	if err != nil {
		log.Warn("failed to update category",
			slog.Int64("category_id", c.ID),
			slog.String("error", redact.Error(err)))
		return mapEntityError(err, nil, store.ErrCategoryNameExists)
	}
	return CheckRowsAffected(result, store.ErrCategoryNotFound)
}

// Delete implements store.CategoryStore.Delete
func (s *PostgresCategoryStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete category",
			slog.Int64("category_id", id),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrCategoryNotFound); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("category deleted", slog.Int64("category_id", id))
	return nil
}
