package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
)

const productColumns = `id, name, brand, category_id, price, description, count, rating,
	sort_order, image, created_at, updated_at`

// PostgresProductStore implements store.ProductStore on PostgreSQL.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a new PostgresProductStore.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	return &PostgresProductStore{db: db, logger: componentLogger(logger, "product_store")}
}

var _ store.ProductStore = (*PostgresProductStore)(nil)

// WithTx implements store.ProductStore.WithTx
func (s *PostgresProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return &PostgresProductStore{db: tx, logger: s.logger}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Brand,
		&p.CategoryID,
		&p.Price,
		&p.Description,
		&p.Count,
		&p.Rating,
		&p.SortOrder,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create implements store.ProductStore.Create
func (s *PostgresProductStore) Create(ctx context.Context, p *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO products (name, brand, category_id, price, description, count, rating,
			sort_order, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		p.Name, p.Brand, p.CategoryID, p.Price, p.Description, p.Count, p.Rating,
		p.SortOrder, p.Image, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		log.Warn("failed to create product",
			slog.Int64("category_id", p.CategoryID),
			slog.String("error", redact.Error(err)))
		return mapEntityError(err, nil, store.ErrProductNameExists)
	}

	log.Info("product created",
		slog.Int64("product_id", p.ID),
		slog.Int64("category_id", p.CategoryID))
	return nil
}

// GetByID implements store.ProductStore.GetByID
func (s *PostgresProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapEntityError(err, store.ErrProductNotFound, nil)
	}
	return p, nil
}

// GetByIDs implements store.ProductStore.GetByIDs
func (s *PostgresProductStore) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY id`
	return s.query(ctx, query, args...)
}

// List implements store.ProductStore.List
func (s *PostgresProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	return s.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY sort_order, id`)
}

func (s *PostgresProductStore) query(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query products",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, MapError(err)
		}
		products = append(products, p)
	}
	return products, MapError(rows.Err())
}

// Update implements store.ProductStore.Update
func (s *PostgresProductStore) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, brand = $2, category_id = $3, price = $4, description = $5, count = $6,
			rating = $7, sort_order = $8, image = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := s.db.ExecContext(ctx, query,
		p.Name, p.Brand, p.CategoryID, p.Price, p.Description, p.Count,
		p.Rating, p.SortOrder, p.Image, p.UpdatedAt, p.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to update product",
			slog.Int64("product_id", p.ID),
			slog.String("error", redact.Error(err)))
		return mapEntityError(err, nil, store.ErrProductNameExists)
	}
	return CheckRowsAffected(result, store.ErrProductNotFound)
}

// Delete implements store.ProductStore.Delete
func (s *PostgresProductStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete product",
			slog.Int64("product_id", id),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProductNotFound)
}
