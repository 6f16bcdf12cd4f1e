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

const bannerColumns = `id, header, description, is_show, image, created_at, updated_at`

// PostgresBannerStore implements store.BannerStore on PostgreSQL. Product
// sets live in the banner_products join table.
type PostgresBannerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBannerStore creates a new PostgresBannerStore.
func NewPostgresBannerStore(db store.DBTX, logger *slog.Logger) *PostgresBannerStore {
	return &PostgresBannerStore{db: db, logger: componentLogger(logger, "banner_store")}
}

var _ store.BannerStore = (*PostgresBannerStore)(nil)

// WithTx implements store.BannerStore.WithTx
func (s *PostgresBannerStore) WithTx(tx *sql.Tx) store.BannerStore {
	return &PostgresBannerStore{db: tx, logger: s.logger}
}

func scanBanner(row rowScanner) (*domain.Banner, error) {
	b := domain.Banner{ProductIDs: []int64{}}
	if err := row.Scan(&b.ID, &b.Header, &b.Description, &b.IsShow, &b.Image, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create implements store.BannerStore.Create
func (s *PostgresBannerStore) Create(ctx context.Context, b *domain.Banner) error {
	query := `
		INSERT INTO banners (header, description, is_show, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		b.Header, b.Description, b.IsShow, b.Image, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create banner",
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.BannerStore.GetByID
func (s *PostgresBannerStore) GetByID(ctx context.Context, id int64) (*domain.Banner, error) {
	query := `SELECT ` + bannerColumns + ` FROM banners WHERE id = $1`
	b, err := scanBanner(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapEntityError(err, store.ErrBannerNotFound, nil)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id FROM banner_products WHERE banner_id = $1 ORDER BY product_id`, id)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var productID int64
		if err := rows.Scan(&productID); err != nil {
			return nil, MapError(err)
		}
		b.ProductIDs = append(b.ProductIDs, productID)
	}
	return b, MapError(rows.Err())
}

// List implements store.BannerStore.List
func (s *PostgresBannerStore) List(ctx context.Context) ([]*domain.Banner, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bannerColumns+` FROM banners ORDER BY id`)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list banners",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	banners := []*domain.Banner{}
	byID := make(map[int64]*domain.Banner)
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			_ = rows.Close()
			return nil, MapError(err)
		}
		banners = append(banners, b)
		byID[b.ID] = b
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	if len(banners) == 0 {
		return banners, nil
	}

	links, err := s.db.QueryContext(ctx,
		`SELECT banner_id, product_id FROM banner_products ORDER BY banner_id, product_id`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = links.Close() }()

	for links.Next() {
		var bannerID, productID int64
		if err := links.Scan(&bannerID, &productID); err != nil {
			return nil, MapError(err)
		}
		if b, ok := byID[bannerID]; ok {
			b.ProductIDs = append(b.ProductIDs, productID)
		}
	}
	return banners, MapError(links.Err())
}

// Update implements store.BannerStore.Update
func (s *PostgresBannerStore) Update(ctx context.Context, b *domain.Banner) error {
	query := `
		UPDATE banners SET header = $1, description = $2, is_show = $3, image = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := s.db.ExecContext(ctx, query, b.Header, b.Description, b.IsShow, b.Image, b.UpdatedAt, b.ID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBannerNotFound)
}

// ReplaceProducts implements store.BannerStore.ReplaceProducts
func (s *PostgresBannerStore) ReplaceProducts(ctx context.Context, bannerID int64, productIDs []int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM banner_products WHERE banner_id = $1`, bannerID); err != nil {
		log.Error("failed to clear banner products",
			slog.Int64("banner_id", bannerID),
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	for _, productID := range productIDs {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO banner_products (banner_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			bannerID, productID)
		if err != nil {
			log.Warn("failed to link banner product",
				slog.Int64("banner_id", bannerID),
				slog.Int64("product_id", productID),
				slog.String("error", redact.Error(err)))
			return MapError(err)
		}
	}

	log.Debug("banner products replaced",
		slog.Int64("banner_id", bannerID),
		slog.Int("product_count", len(productIDs)))
	return nil
}

// Delete implements store.BannerStore.Delete
func (s *PostgresBannerStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrBannerNotFound)
}
