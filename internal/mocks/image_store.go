package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/phrazzld/storefront-api/internal/media"
)

// MockImageStore implements media.ImageStore in memory. Saved objects are
// served from BaseURL.
type MockImageStore struct {
	BaseURL string
	Err     error

	mu      sync.Mutex
	objects map[string][]byte
}

var _ media.ImageStore = (*MockImageStore)(nil)

// Save implements media.ImageStore.
func (m *MockImageStore) Save(_ context.Context, key, _ string, r io.Reader) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return m.BaseURL + "/" + key, nil
}

// Objects returns the number of stored objects.
func (m *MockImageStore) Objects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
