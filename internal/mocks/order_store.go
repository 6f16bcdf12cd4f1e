package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockOrderStore implements store.OrderStore for testing.
type MockOrderStore struct {
	rows *table[domain.Order]
}

var _ store.OrderStore = (*MockOrderStore)(nil)

// NewMockOrderStore creates an empty store.
func NewMockOrderStore() *MockOrderStore {
	return &MockOrderStore{rows: newTable(func(o *domain.Order) *int64 { return &o.ID })}
}

// Add stores order directly.
func (m *MockOrderStore) Add(o *domain.Order) *domain.Order {
	m.rows.insert(o)
	return o
}

// Create implements store.OrderStore.
func (m *MockOrderStore) Create(_ context.Context, o *domain.Order) error {
	m.rows.insert(o)
	return nil
}

// GetByID implements store.OrderStore.
func (m *MockOrderStore) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := m.rows.get(id)
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	return o, nil
}

// List implements store.OrderStore.
func (m *MockOrderStore) List(context.Context) ([]*domain.Order, error) {
	return m.rows.list(nil), nil
}

// ListByUser implements store.OrderStore.
func (m *MockOrderStore) ListByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	return m.rows.list(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

// Update implements store.OrderStore.
func (m *MockOrderStore) Update(_ context.Context, o *domain.Order) error {
	if !m.rows.update(o) {
		return store.ErrOrderNotFound
	}
	return nil
}

// Delete implements store.OrderStore.
func (m *MockOrderStore) Delete(_ context.Context, id int64) error {
	if !m.rows.remove(id) {
		return store.ErrOrderNotFound
	}
	return nil
}

// WithTx implements store.OrderStore.
func (m *MockOrderStore) WithTx(*sql.Tx) store.OrderStore {
	return m
}

// MockOrderedProductStore implements store.OrderedProductStore for testing.
type MockOrderedProductStore struct {
	rows *table[domain.OrderedProduct]
}

var _ store.OrderedProductStore = (*MockOrderedProductStore)(nil)

// NewMockOrderedProductStore creates an empty store.
func NewMockOrderedProductStore() *MockOrderedProductStore {
	return &MockOrderedProductStore{rows: newTable(func(op *domain.OrderedProduct) *int64 { return &op.ID })}
}

// Create implements store.OrderedProductStore.
func (m *MockOrderedProductStore) Create(_ context.Context, op *domain.OrderedProduct) error {
	m.rows.insert(op)
	return nil
}

// GetByID implements store.OrderedProductStore.
func (m *MockOrderedProductStore) GetByID(_ context.Context, id int64) (*domain.OrderedProduct, error) {
	op, ok := m.rows.get(id)
	if !ok {
		return nil, store.ErrOrderedProductNotFound
	}
	return op, nil
}

// GetByOrderAndProduct implements store.OrderedProductStore.
func (m *MockOrderedProductStore) GetByOrderAndProduct(
	_ context.Context,
	orderID, productID int64,
) (*domain.OrderedProduct, error) {
	found := m.rows.list(func(op *domain.OrderedProduct) bool {
		return op.OrderID == orderID && op.ProductID == productID
	})
	if len(found) == 0 {
		return nil, store.ErrOrderedProductNotFound
	}
	return found[0], nil
}

// List implements store.OrderedProductStore.
func (m *MockOrderedProductStore) List(context.Context) ([]*domain.OrderedProduct, error) {
	return m.rows.list(nil), nil
}

// ListByOrder implements store.OrderedProductStore.
func (m *MockOrderedProductStore) ListByOrder(_ context.Context, orderID int64) ([]*domain.OrderedProduct, error) {
	return m.rows.list(func(op *domain.OrderedProduct) bool { return op.OrderID == orderID }), nil
}

// Update implements store.OrderedProductStore.
func (m *MockOrderedProductStore) Update(_ context.Context, op *domain.OrderedProduct) error {
	if !m.rows.update(op) {
		return store.ErrOrderedProductNotFound
	}
	return nil
}

// Delete implements store.OrderedProductStore.
func (m *MockOrderedProductStore) Delete(_ context.Context, id int64) error {
	if !m.rows.remove(id) {
		return store.ErrOrderedProductNotFound
	}
	return nil
}

// WithTx implements store.OrderedProductStore.
func (m *MockOrderedProductStore) WithTx(*sql.Tx) store.OrderedProductStore {
	return m
}
