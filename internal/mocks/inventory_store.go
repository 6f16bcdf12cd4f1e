package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockStorageStore implements store.StorageStore for testing.
type MockStorageStore struct {
	rows *table[domain.Storage]
}

var _ store.StorageStore = (*MockStorageStore)(nil)

// NewMockStorageStore creates an empty store.
func NewMockStorageStore() *MockStorageStore {
	return &MockStorageStore{rows: newTable(func(s *domain.Storage) *int64 { return &s.ID })}
}

// Add stores storage directly.
func (m *MockStorageStore) Add(s *domain.Storage) *domain.Storage {
	m.rows.insert(s)
	return s
}

// Create implements store.StorageStore.
func (m *MockStorageStore) Create(_ context.Context, s *domain.Storage) error {
	m.rows.insert(s)
	return nil
}

// GetByID implements store.StorageStore.
func (m *MockStorageStore) GetByID(_ context.Context, id int64) (*domain.Storage, error) {
	s, ok := m.rows.get(id)
	if !ok {
		return nil, store.ErrStorageNotFound
	}
	return s, nil
}

// List implements store.StorageStore.
func (m *MockStorageStore) List(context.Context) ([]*domain.Storage, error) {
	return m.rows.list(nil), nil
}

// Update implements store.StorageStore.
func (m *MockStorageStore) Update(_ context.Context, s *domain.Storage) error {
	if !m.rows.update(s) {
		return store.ErrStorageNotFound
	}
	return nil
}

// Delete implements store.StorageStore.
func (m *MockStorageStore) Delete(_ context.Context, id int64) error {
	if !m.rows.remove(id) {
		return store.ErrStorageNotFound
	}
	return nil
}

// WithTx implements store.StorageStore.
func (m *MockStorageStore) WithTx(*sql.Tx) store.StorageStore {
	return m
}

// MockProductStorageStore implements store.ProductStorageStore for testing.
type MockProductStorageStore struct {
	rows *table[domain.ProductStorage]
}

var _ store.ProductStorageStore = (*MockProductStorageStore)(nil)

// NewMockProductStorageStore creates an empty store.
func NewMockProductStorageStore() *MockProductStorageStore {
	return &MockProductStorageStore{rows: newTable(func(ps *domain.ProductStorage) *int64 { return &ps.ID })}
}

// Create implements store.ProductStorageStore.
func (m *MockProductStorageStore) Create(_ context.Context, ps *domain.ProductStorage) error {
	dup := m.rows.list(func(o *domain.ProductStorage) bool {
		return o.StorageID == ps.StorageID && o.ProductID == ps.ProductID
	})
	if len(dup) > 0 {
		return store.ErrProductStorageExists
	}
	m.rows.insert(ps)
	return nil
}

// GetByID implements store.ProductStorageStore.
func (m *MockProductStorageStore) GetByID(_ context.Context, id int64) (*domain.ProductStorage, error) {
	ps, ok := m.rows.get(id)
	if !ok {
		return nil, store.ErrProductStorageNotFound
	}
	return ps, nil
}

// List implements store.ProductStorageStore.
func (m *MockProductStorageStore) List(context.Context) ([]*domain.ProductStorage, error) {
	return m.rows.list(nil), nil
}

// ListByStorage implements store.ProductStorageStore.
func (m *MockProductStorageStore) ListByStorage(_ context.Context, storageID int64) ([]*domain.ProductStorage, error) {
	return m.rows.list(func(ps *domain.ProductStorage) bool { return ps.StorageID == storageID }), nil
}

// Update implements store.ProductStorageStore.
func (m *MockProductStorageStore) Update(_ context.Context, ps *domain.ProductStorage) error {
	if !m.rows.update(ps) {
		return store.ErrProductStorageNotFound
	}
	return nil
}

// Delete implements store.ProductStorageStore.
func (m *MockProductStorageStore) Delete(_ context.Context, id int64) error {
	if !m.rows.remove(id) {
		return store.ErrProductStorageNotFound
	}
	return nil
}

// WithTx implements store.ProductStorageStore.
func (m *MockProductStorageStore) WithTx(*sql.Tx) store.ProductStorageStore {
	return m
}
