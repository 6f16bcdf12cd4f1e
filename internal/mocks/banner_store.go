package mocks

import (
	"context"
	"database/sql"
	"slices"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockBannerStore implements store.BannerStore for testing. Product sets are
// only changed by ReplaceProducts, as in the real store.
type MockBannerStore struct {
	ReplaceProductsFn func(ctx context.Context, bannerID int64, productIDs []int64) error

	rows *table[domain.Banner]
}

var _ store.BannerStore = (*MockBannerStore)(nil)

// NewMockBannerStore creates an empty store.
func NewMockBannerStore() *MockBannerStore {
	return &MockBannerStore{rows: newTable(func(b *domain.Banner) *int64 { return &b.ID })}
}

// Create implements store.BannerStore.
func (m *MockBannerStore) Create(_ context.Context, b *domain.Banner) error {
	row := *b
	row.ProductIDs = []int64{}
	m.rows.insert(&row)
	b.ID = row.ID
	return nil
}

// GetByID implements store.BannerStore.
func (m *MockBannerStore) GetByID(_ context.Context, id int64) (*domain.Banner, error) {
	b, ok := m.rows.get(id)
	if !ok {
		return nil, store.ErrBannerNotFound
	}
	b.ProductIDs = slices.Clone(b.ProductIDs)
	return b, nil
}

// List implements store.BannerStore.
func (m *MockBannerStore) List(context.Context) ([]*domain.Banner, error) {
	return m.rows.list(nil), nil
}

// Update implements store.BannerStore.
func (m *MockBannerStore) Update(_ context.Context, b *domain.Banner) error {
	current, ok := m.rows.get(b.ID)
	if !ok {
		return store.ErrBannerNotFound
	}
	row := *b
	row.ProductIDs = current.ProductIDs
	m.rows.update(&row)
	return nil
}

// ReplaceProducts implements store.BannerStore.
func (m *MockBannerStore) ReplaceProducts(ctx context.Context, bannerID int64, productIDs []int64) error {
	if m.ReplaceProductsFn != nil {
		return m.ReplaceProductsFn(ctx, bannerID, productIDs)
	}
	b, ok := m.rows.get(bannerID)
	if !ok {
		return store.ErrBannerNotFound
	}
	b.ProductIDs = slices.Clone(productIDs)
	m.rows.update(b)
	return nil
}

// Delete implements store.BannerStore.
func (m *MockBannerStore) Delete(_ context.Context, id int64) error {
	if !m.rows.remove(id) {
		return store.ErrBannerNotFound
	}
	return nil
}

// WithTx implements store.BannerStore.
func (m *MockBannerStore) WithTx(*sql.Tx) store.BannerStore {
	return m
}
