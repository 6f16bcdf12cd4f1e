package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/media"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// BannerService manages promotional banners.
type BannerService interface {
	ListBanners(ctx context.Context) ([]*domain.Banner, error)
	GetBanner(ctx context.Context, id int64) (*domain.Banner, error)
	CreateBanner(ctx context.Context, patch domain.BannerPatch) (*domain.Banner, error)
	UpdateBanner(ctx context.Context, id int64, patch domain.BannerPatch) (*domain.Banner, error)
	DeleteBanner(ctx context.Context, id int64) error
	UploadBannerImage(ctx context.Context, id int64, contentType string, r io.Reader) (*domain.Banner, error)
}

// BannerServiceImpl implements BannerService.
type BannerServiceImpl struct {
	banners store.BannerStore
	db      store.TxBeginner
	images  media.ImageStore
	logger  *slog.Logger
	now     func() time.Time
}

var _ BannerService = (*BannerServiceImpl)(nil)

// NewBannerService creates a BannerService.
func NewBannerService(
	banners store.BannerStore,
	db store.TxBeginner,
	images media.ImageStore,
	logger *slog.Logger,
) *BannerServiceImpl {
	return &BannerServiceImpl{
		banners: banners,
		db:      db,
		images:  images,
		logger:  logger.With("component", "banner_service"),
		now:     time.Now,
	}
}

// ListBanners implements BannerService.
func (s *BannerServiceImpl) ListBanners(ctx context.Context) ([]*domain.Banner, error) {
	return s.banners.List(ctx)
}

// GetBanner implements BannerService.
func (s *BannerServiceImpl) GetBanner(ctx context.Context, id int64) (*domain.Banner, error) {
	return s.banners.GetByID(ctx, id)
}

// CreateBanner implements BannerService. The banner row and its product
// set are written in one transaction.
func (s *BannerServiceImpl) CreateBanner(ctx context.Context, patch domain.BannerPatch) (*domain.Banner, error) {
	banner, err := domain.NewBanner(patch, s.now())
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		banners := s.banners.WithTx(tx)
		if err := banners.Create(ctx, banner); err != nil {
			return err
		}
		return banners.ReplaceProducts(ctx, banner.ID, banner.ProductIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "banner created",
		"banner_id", banner.ID,
		"products", len(banner.ProductIDs))
	return banner, nil
}

// UpdateBanner implements BannerService. A product list in patch replaces
// the banner's whole product set.
func (s *BannerServiceImpl) UpdateBanner(
	ctx context.Context,
	id int64,
	patch domain.BannerPatch,
) (*domain.Banner, error) {
	var banner *domain.Banner
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		banners := s.banners.WithTx(tx)

		var err error
		banner, err = banners.GetByID(ctx, id)
		if err != nil {
			return err
		}

		banner.Apply(patch, s.now())
		if err := banner.Validate(); err != nil {
			return err
		}
		if err := banners.Update(ctx, banner); err != nil {
			return err
		}
		if patch.ProductIDs != nil {
			return banners.ReplaceProducts(ctx, banner.ID, banner.ProductIDs)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update banner: %w", err)
	}
	return banner, nil
}

// DeleteBanner implements BannerService.
func (s *BannerServiceImpl) DeleteBanner(ctx context.Context, id int64) error {
	if err := s.banners.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	return nil
}

// UploadBannerImage implements BannerService.
func (s *BannerServiceImpl) UploadBannerImage(
	ctx context.Context,
	id int64,
	contentType string,
	r io.Reader,
) (*domain.Banner, error) {
	banner, err := s.banners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := saveImage(ctx, s.images, "banners", id, contentType, r)
	if err != nil {
		return nil, err
	}
	banner.Apply(domain.BannerPatch{Image: &url}, s.now())
	if err := s.banners.Update(ctx, banner); err != nil {
		return nil, fmt.Errorf("failed to save banner image: %w", err)
	}
	return banner, nil
}
