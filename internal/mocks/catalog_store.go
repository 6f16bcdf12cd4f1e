package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing. Deleting a
// category clears the parent of its children, like the real schema.
type MockCategoryStore struct {
	CreateFn        func(ctx context.Context, category *domain.Category) error
	UpdateFn        func(ctx context.Context, category *domain.Category) error
	DeleteFn        func(ctx context.Context, id int64) error
	LockForUpdateFn func(ctx context.Context, id, parentID int64) error

	rows *table[domain.Category]
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// NewMockCategoryStore creates an empty store.
func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{rows: newTable(func(c *domain.Category) *int64 { return &c.ID })}
}

// Add stores category directly.
func (m *MockCategoryStore) Add(category *domain.Category) *domain.Category {
	m.rows.insert(category)
	return category
}

// Create implements store.CategoryStore.
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	if _, err := m.GetByName(ctx, category.Name); err == nil {
		return store.ErrCategoryNameExists
	}
	if category.ParentID != nil {
		if _, ok := m.rows.get(*category.ParentID); !ok {
			return store.ErrInvalidReference
		}
	}
	m.rows.insert(category)
	return nil
}

// GetByID implements store.CategoryStore.
func (m *MockCategoryStore) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := m.rows.get(id)
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	return c, nil
}

// GetByName implements store.CategoryStore.
func (m *MockCategoryStore) GetByName(_ context.Context, name string) (*domain.Category, error) {
	found := m.rows.list(func(c *domain.Category) bool { return c.Name == name })
	if len(found) == 0 {
		return nil, store.ErrCategoryNotFound
	}
	return found[0], nil
}

// List implements store.CategoryStore.
func (m *MockCategoryStore) List(context.Context) ([]*domain.Category, error) {
	return m.rows.list(nil), nil
}

// ListChildren implements store.CategoryStore.
func (m *MockCategoryStore) ListChildren(_ context.Context, parentID int64) ([]*domain.Category, error) {
	return m.rows.list(func(c *domain.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}), nil
}

// CountChildren implements store.CategoryStore.
func (m *MockCategoryStore) CountChildren(ctx context.Context, parentID int64) (int, error) {
	children, err := m.ListChildren(ctx, parentID)
	return len(children), err
}

// IsDescendant implements store.CategoryStore.
func (m *MockCategoryStore) IsDescendant(ctx context.Context, ancestorID, candidateID int64) (bool, error) {
	frontier := []int64{ancestorID}
	seen := map[int64]bool{ancestorID: true}
	for len(frontier) > 0 {
		id := frontier[0]
		frontier = frontier[1:]
		children, _ := m.ListChildren(ctx, id)
		for _, c := range children {
			if c.ID == candidateID {
				return true, nil
			}
			if !seen[c.ID] {
				seen[c.ID] = true
				frontier = append(frontier, c.ID)
			}
		}
	}
	return false, nil
}

// LockForUpdate implements store.CategoryStore. Without LockForUpdateFn it
// is a no-op.
func (m *MockCategoryStore) LockForUpdate(ctx context.Context, id, parentID int64) error {
	if m.LockForUpdateFn != nil {
		return m.LockForUpdateFn(ctx, id, parentID)
	}
	return nil
}

// Update implements store.CategoryStore.
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}
	if !m.rows.update(category) {
		return store.ErrCategoryNotFound
	}
	return nil
}

// Delete implements store.CategoryStore.
func (m *MockCategoryStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if !m.rows.remove(id) {
		return store.ErrCategoryNotFound
	}
	children, _ := m.ListChildren(ctx, id)
	for _, c := range children {
		c.ParentID = nil
		m.rows.update(c)
	}
	return nil
}

// WithTx implements store.CategoryStore.
func (m *MockCategoryStore) WithTx(*sql.Tx) store.CategoryStore {
	return m
}

// MockProductStore implements store.ProductStore for testing.
type MockProductStore struct {
	CreateFn func(ctx context.Context, product *domain.Product) error
	UpdateFn func(ctx context.Context, product *domain.Product) error

	rows *table[domain.Product]
}

var _ store.ProductStore = (*MockProductStore)(nil)

// NewMockProductStore creates an empty store.
func NewMockProductStore() *MockProductStore {
	return &MockProductStore{rows: newTable(func(p *domain.Product) *int64 { return &p.ID })}
}

// Add stores product directly.
func (m *MockProductStore) Add(product *domain.Product) *domain.Product {
	m.rows.insert(product)
	return product
}

// Create implements store.ProductStore.
func (m *MockProductStore) Create(ctx context.Context, product *domain.Product) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, product)
	}
	if len(m.rows.list(func(p *domain.Product) bool { return p.Name == product.Name })) > 0 {
		return store.ErrProductNameExists
	}
	m.rows.insert(product)
	return nil
}

// GetByID implements store.ProductStore.
func (m *MockProductStore) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.rows.get(id)
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return p, nil
}

// GetByIDs implements store.ProductStore.
func (m *MockProductStore) GetByIDs(_ context.Context, ids []int64) ([]*domain.Product, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return m.rows.list(func(p *domain.Product) bool { return want[p.ID] }), nil
}

// List implements store.ProductStore.
func (m *MockProductStore) List(context.Context) ([]*domain.Product, error) {
	return m.rows.list(nil), nil
}

// Update implements store.ProductStore.
func (m *MockProductStore) Update(ctx context.Context, product *domain.Product) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, product)
	}
	if !m.rows.update(product) {
		return store.ErrProductNotFound
	}
	return nil
}

// Delete implements store.ProductStore.
func (m *MockProductStore) Delete(_ context.Context, id int64) error {
	if !m.rows.remove(id) {
		return store.ErrProductNotFound
	}
	return nil
}

// WithTx implements store.ProductStore.
func (m *MockProductStore) WithTx(*sql.Tx) store.ProductStore {
	return m
}
