package shared

import (
	"context"
	"strings"
	"testing"

	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "generated when empty", incoming: ""},
		{name: "incoming id kept", incoming: "req-123", keep: true},
		{name: "oversized id replaced", incoming: strings.Repeat("x", maxTraceIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := SetTraceID(context.Background(), tt.incoming)
			got := GetTraceID(ctx)
			if tt.keep {
				assert.Equal(t, tt.incoming, got)
				return
			}
			assert.Len(t, got, 32)
			assert.NotContains(t, got, "-")
		})
	}

	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetTraceID(context.WithValue(context.Background(), TraceIDKey, 123)))
}

func TestClaimsInContext(t *testing.T) {
	t.Parallel()

	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)
	_, ok = ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &auth.Claims{UserID: 42, ID: "jti-1"})

	id, ok := UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "jti-1", claims.ID)
}
