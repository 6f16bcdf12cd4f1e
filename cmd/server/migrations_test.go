package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Printf("OK   %s\n", "20250301000001_create_users.sql")
	l.Fatalf("goose run: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "20250301000001_create_users.sql")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "goose run: boom")
}

func TestMaskDatabaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"postgres://shop:s3cret@db:5432/shop?sslmode=disable", "postgres://shop:%2A%2A%2A%2A@db:5432/shop?sslmode=disable"},
		{"postgres://shop@db:5432/shop", "postgres://shop@db:5432/shop"},
		{"postgres://db:5432/shop", "postgres://db:5432/shop"},
		{"://bad", "invalid-url"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := maskDatabaseURL(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "s3cret")
		})
	}
}

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	t.Parallel()

	err := runMigrations(context.Background(), "postgres://localhost/none", "reset", migrationOptions{
		logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration command "reset"`)
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, createMigration(dir, "add_product_tags", defaultGooseLogger()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_add_product_tags.sql"), entries[0].Name())

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- +goose Up")

	assert.Error(t, createMigration(dir, "  ", defaultGooseLogger()))
}
