package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/generation"
	"github.com/phrazzld/storefront-api/internal/mail"
	"github.com/phrazzld/storefront-api/internal/media"
	"github.com/phrazzld/storefront-api/internal/metrics"
	"github.com/phrazzld/storefront-api/internal/platform/gemini"
	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/phrazzld/storefront-api/internal/platform/redis"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// application holds the shared dependencies and ensures they are released
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService
	revoker    auth.TokenRevoker
	metrics    *metrics.Metrics

	accounts  service.AccountService
	catalog   service.CatalogService
	inventory service.InventoryService
	orders    service.OrderService
	banners   service.BannerService

	closers []io.Closer
}

// newApplication wires stores, integrations and services. cfg, logger and
// db must already be set up.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.revoker, err = app.setupRevoker(ctx)
	if err != nil {
		return nil, err
	}

	generator, err := app.setupGenerator(ctx)
	if err != nil {
		return nil, err
	}

	images, err := media.New(ctx, cfg.Media, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	}
	logger.Info("Media store initialized", "driver", cfg.Media.Driver)

	var mailer mail.Mailer = mail.NewLogMailer(logger)
	if cfg.Mail.Enabled {
		mailer = mail.NewSMTPMailer(cfg.Mail, logger)
		logger.Info("SMTP mailer initialized", "host", cfg.Mail.Host)
	}

	users := postgres.NewPostgresUserStore(db, logger)
	categories := postgres.NewPostgresCategoryStore(db, logger)
	products := postgres.NewPostgresProductStore(db, logger)
	storages := postgres.NewPostgresStorageStore(db, logger)
	stock := postgres.NewPostgresProductStorageStore(db, logger)
	orders := postgres.NewPostgresOrderStore(db, logger)
	lines := postgres.NewPostgresOrderedProductStore(db, logger)
	banners := postgres.NewPostgresBannerStore(db, logger)

	app.accounts = service.NewAccountService(
		users, db, app.jwtService, auth.NewBcryptVerifier(cfg.Auth.BCryptCost), app.revoker, mailer, app.metrics,
		service.AccountOptions{
			ResetCodeTTL:    time.Duration(cfg.Reset.CodeTTLMinutes) * time.Minute,
			ResetCodeLength: cfg.Reset.CodeLength,
			MailFrom:        cfg.Mail.From,
		},
		logger,
	)
	app.catalog = service.NewCatalogService(categories, products, db, generator, images, app.metrics, logger)
	app.inventory = service.NewInventoryService(storages, stock, logger)
	app.orders = service.NewOrderService(users, orders, lines, logger)
	app.banners = service.NewBannerService(banners, db, images, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupRevoker selects the Redis revocation list when configured.
func (app *application) setupRevoker(ctx context.Context) (auth.TokenRevoker, error) {
	if app.config.Redis.Addr == "" {
		app.logger.Warn("redis not configured, token revocation is process-local")
		return auth.NewMemoryRevoker(), nil
	}

	client, err := redis.NewClient(ctx, app.config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token revocation: %w", err)
	}
	app.closers = append(app.closers, client)
	app.logger.Info("Redis token revocation initialized", "addr", app.config.Redis.Addr)
	return redis.NewRevoker(client, app.logger), nil
}

// setupGenerator returns the Gemini description generator, or a disabled
// one when LLM integration is off.
func (app *application) setupGenerator(ctx context.Context) (generation.DescriptionGenerator, error) {
	if !app.config.LLM.Enabled {
		app.logger.Info("LLM integration disabled, products keep empty descriptions")
		return generation.Disabled{}, nil
	}

	generator, err := gemini.NewGeminiGenerator(ctx, app.logger, app.config.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	app.logger.Info("LLM generator initialized", "model", app.config.LLM.ModelName)
	return generator, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases connections held by the application.
func (app *application) cleanup() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Error("Error closing client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
