package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/phrazzld/storefront-api/internal/redact"
)

// defaultMigrationsDir is where create writes new files, relative to the
// repository root. Applied migrations are read from the embedded copy.
const defaultMigrationsDir = "internal/platform/postgres/migrations"

var migrationCommands = map[string]bool{"up": true, "down": true, "status": true, "version": true}

type migrationOptions struct {
	dir    string
	logger *slog.Logger
}

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func defaultGooseLogger() *slogGooseLogger {
	return &slogGooseLogger{logger: slog.Default().With("component", "migrations")}
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. It does not exit; goose returns the
// error to the caller as well.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// runMigrations executes a goose command against the embedded migrations.
func runMigrations(ctx context.Context, dbURL, command string, opts migrationOptions) error {
	if !migrationCommands[command] {
		return fmt.Errorf("unknown migration command %q", command)
	}

	log := opts.logger.With(
		"component", "migrations",
		"command", command,
		"correlation_id", uuid.NewString(),
	)

	db, err := openDatabase(ctx, dbURL, 5, 2)
	if err != nil {
		log.Error("Database connection failed", "error", redact.Error(err), "url", maskDatabaseURL(dbURL))
		return err
	}
	defer func() { _ = db.Close() }()

	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetBaseFS(postgres.Migrations)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(postgres.MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	start := time.Now()
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, postgres.MigrationsDir)
	case "down":
		err = goose.DownContext(ctx, db, postgres.MigrationsDir)
	case "status":
		err = goose.StatusContext(ctx, db, postgres.MigrationsDir)
	case "version":
		err = goose.VersionContext(ctx, db, postgres.MigrationsDir)
	}
	if err != nil {
		log.Error("Migration failed", "error", redact.Error(err))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("Migration completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// createMigration writes a new timestamped SQL migration into dir.
func createMigration(dir, name string, l *slogGooseLogger) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("migration name is required")
	}
	goose.SetLogger(l)
	goose.SetBaseFS(nil)
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	return nil
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		if _, hasPassword := parsedURL.User.Password(); hasPassword {
			parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		}
		return parsedURL.String()
	}
	return dbURL
}
