package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
)

// LocalStore writes images under a root directory.
type LocalStore struct {
	root    string
	baseURL string
	logger  *slog.Logger
}

var _ ImageStore = (*LocalStore)(nil)

// NewLocalStore creates a LocalStore. Files are served from baseURL.
func NewLocalStore(root, baseURL string, l *slog.Logger) *LocalStore {
	if l == nil {
		l = slog.Default()
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	return &LocalStore{
		root:    root,
		baseURL: baseURL,
		logger:  l.With("component", "local_media"),
	}
}

// Root returns the directory images are written to.
func (s *LocalStore) Root() string {
	return s.root
}

// Save implements ImageStore.
func (s *LocalStore) Save(ctx context.Context, key, _ string, r io.Reader) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid key", ErrStoreFailed)
	}
	full := filepath.Join(s.root, clean)

	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		log.ErrorContext(ctx, "failed to create media directory", "error", redact.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	f, err := os.Create(full)
	if err != nil {
		log.ErrorContext(ctx, "failed to create media file", "error", redact.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, io.LimitReader(r, MaxImageSize)); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	return joinURL(s.baseURL, filepath.ToSlash(clean)), nil
}
