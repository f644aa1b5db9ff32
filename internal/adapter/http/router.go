package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/coinfolio/coinfolio/internal/adapter/http/handler"
	"github.com/coinfolio/coinfolio/internal/adapter/http/middleware"
	"github.com/coinfolio/coinfolio/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AssetHandler      *handler.AssetHandler
	ManualHandler     *handler.ManualHandler
	ConnectionHandler *handler.ConnectionHandler
	PortfolioHandler  *handler.PortfolioHandler
	PriceHandler      *handler.PriceHandler
	AlertHandler      *handler.AlertHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	RateLimiter       *middleware.RateLimiter
	APIToken          string
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.APIToken))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Single-asset reconciliation
		r.Get("/assets/{symbol}", cfg.AssetHandler.Get)

		// Manual ledger
		r.Route("/manual", func(r chi.Router) {
			r.Post("/", cfg.ManualHandler.Create)
			r.Get("/", cfg.ManualHandler.List)
			r.Put("/{id}", cfg.ManualHandler.Update)
			r.Delete("/{id}", cfg.ManualHandler.Delete)
		})

		// Exchange connections
		r.Route("/connections", func(r chi.Router) {
			r.Post("/", cfg.ConnectionHandler.Create)
			r.Get("/", cfg.ConnectionHandler.List)
			r.Get("/{id}", cfg.ConnectionHandler.Get)
			r.Delete("/{id}", cfg.ConnectionHandler.Delete)
			r.Get("/{id}/balances", cfg.ConnectionHandler.Balances)
			r.Get("/{id}/trades", cfg.ConnectionHandler.Trades)
		})

		// Portfolio views
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", cfg.PortfolioHandler.Summary)
			r.Get("/summary", cfg.PortfolioHandler.Summary)
			r.Get("/performance", cfg.PortfolioHandler.Performance)
			r.Get("/history", cfg.PortfolioHandler.History)
		})

		// Price alerts
		r.Route("/alerts", func(r chi.Router) {
			r.Post("/", cfg.AlertHandler.Create)
			r.Get("/", cfg.AlertHandler.List)
			r.Delete("/{id}", cfg.AlertHandler.Delete)
		})

		r.Get("/transactions", cfg.PortfolioHandler.Transactions)
		r.Get("/prices", cfg.PriceHandler.List)
	})

	return r
}
