package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/storefront-api/internal/generation"
)

// MockGenerator implements generation.DescriptionGenerator for testing.
type MockGenerator struct {
	GenerateDescriptionFn func(ctx context.Context, productName string) (string, error)

	// Default response values
	Description string
	Err         error

	mu    sync.Mutex
	names []string
}

var _ generation.DescriptionGenerator = (*MockGenerator)(nil)

// GenerateDescription implements generation.DescriptionGenerator.
func (m *MockGenerator) GenerateDescription(ctx context.Context, productName string) (string, error) {
	m.mu.Lock()
	m.names = append(m.names, productName)
	m.mu.Unlock()

	if m.GenerateDescriptionFn != nil {
		return m.GenerateDescriptionFn(ctx, productName)
	}
	return m.Description, m.Err
}

// Calls returns the product names passed so far.
func (m *MockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...)
}
