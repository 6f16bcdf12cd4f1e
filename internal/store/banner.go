package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// BannerStore defines the interface for banner persistence. Banner rows and
// their product sets are written separately; callers that need both to land
// together run them in one transaction.
type BannerStore interface {
	// Create saves the banner row and sets its ID and timestamps.
	// ProductIDs are not written.
	Create(ctx context.Context, banner *domain.Banner) error

	// GetByID returns the banner with its product set populated.
	// Returns ErrBannerNotFound if the banner does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Banner, error)

	// List returns all banners with their product sets populated.
	List(ctx context.Context) ([]*domain.Banner, error)

	// Update writes the banner row. ProductIDs are not written.
	// Returns ErrBannerNotFound if the banner does not exist.
	Update(ctx context.Context, banner *domain.Banner) error

	// ReplaceProducts makes productIDs the complete product set of the banner.
	// Returns ErrInvalidReference if a product does not exist.
	ReplaceProducts(ctx context.Context, bannerID int64, productIDs []int64) error

	// Delete returns ErrBannerNotFound if the banner does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a BannerStore bound to tx.
	WithTx(tx *sql.Tx) BannerStore
}
