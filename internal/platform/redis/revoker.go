// Package redis provides Redis-backed infrastructure: the shared token
// revocation list used to make logout effective across replicas.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	goredis "github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "storefront:revoked:"

// commander is the subset of goredis.Cmdable the revoker uses.
type commander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Revoker implements auth.TokenRevoker with one expiring key per token id.
type Revoker struct {
	client commander
	now    func() time.Time
	logger *slog.Logger
}

var _ auth.TokenRevoker = (*Revoker)(nil)

// NewClient creates a go-redis client from configuration and checks the
// connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRevoker creates a Revoker on top of client.
func NewRevoker(client goredis.Cmdable, logger *slog.Logger) *Revoker {
	return newRevoker(client, logger)
}

func newRevoker(client commander, logger *slog.Logger) *Revoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Revoker{
		client: client,
		now:    time.Now,
		logger: logger.With("component", "token_revoker"),
	}
}

// Revoke implements auth.TokenRevoker.
func (r *Revoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		r.logger.Error("failed to revoke token", "error", err)
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements auth.TokenRevoker.
func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}
