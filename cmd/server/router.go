package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/storefront-api/internal/api"
	apiMiddleware "github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/api/shared"
)

// setupRouter creates the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(app.metrics.Middleware)

	handlers := api.Handlers{
		Auth: api.NewAuthHandler(app.accounts, api.CookieOptions{
			Name:   app.config.Auth.CookieName,
			Secure: app.config.Auth.CookieSecure,
		}, app.logger),
		Catalog:   api.NewCatalogHandler(app.catalog, app.logger),
		Inventory: api.NewInventoryHandler(app.inventory, app.logger),
		Orders:    api.NewOrderHandler(app.orders, app.logger),
		Banners:   api.NewBannerHandler(app.banners, app.logger),
	}
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.revoker, app.config.Auth.CookieName)

	r.Route("/api", func(r chi.Router) {
		handlers.Mount(r, authMiddleware.Authenticate)
	})

	r.Get("/health", app.handleHealth)
	r.Handle("/metrics", app.metrics.Handler())

	return r
}

// handleHealth reports whether the database is reachable.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		app.logger.Error("Failed to write health check response", "error", err)
	}
}
