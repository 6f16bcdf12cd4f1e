package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommander struct {
	keys   map[string]time.Duration
	setErr error
	exErr  error
}

func (f *fakeCommander) Set(_ context.Context, key string, _ any, expiration time.Duration) *goredis.StatusCmd {
	if f.setErr != nil {
		return goredis.NewStatusResult("", f.setErr)
	}
	f.keys[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeCommander) Exists(_ context.Context, keys ...string) *goredis.IntCmd {
	if f.exErr != nil {
		return goredis.NewIntResult(0, f.exErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestRevoker(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeCommander{keys: map[string]time.Duration{}}
	r := newRevoker(fake, nil)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "abc", now.Add(90*time.Minute)))
	assert.Equal(t, 90*time.Minute, fake.keys[revokedKeyPrefix+"abc"], "key lives as long as the token")

	revoked, err := r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "old", now.Add(-time.Second)))
	assert.NotContains(t, fake.keys, revokedKeyPrefix+"old")
}

func TestRevokerErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	r := newRevoker(&fakeCommander{keys: map[string]time.Duration{}, setErr: boom, exErr: boom}, nil)

	err := r.Revoke(context.Background(), "abc", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, boom)

	_, err = r.IsRevoked(context.Background(), "abc")
	assert.ErrorIs(t, err, boom)
}
