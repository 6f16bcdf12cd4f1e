package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/config"
)

// MaxImageSize bounds a single upload.
const MaxImageSize = 5 << 20

var (
	// ErrUnsupportedType is returned for uploads that are not images.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrStoreFailed is returned when the backend cannot persist an object.
	ErrStoreFailed = errors.New("failed to store image")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore persists an image and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// ObjectKey builds a collision-free key such as "products/42/<uuid>.png".
func ObjectKey(kind string, id int64, contentType string) (string, error) {
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return path.Join(kind, fmt.Sprint(id), uuid.NewString()+ext), nil
}

// New returns the ImageStore selected by cfg.Driver.
func New(ctx context.Context, cfg config.MediaConfig, l *slog.Logger) (ImageStore, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.LocalDir, cfg.BaseURL, l), nil
	case "s3":
		return NewS3Store(ctx, cfg, l)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
