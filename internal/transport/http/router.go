// Package httptransport assembles the HTTP API: the shared middleware
// chain plus the routes each handler registers.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"affilia/internal/platform/middleware"
	platformredis "affilia/internal/platform/redis"
)

// Registrar is implemented by handlers that attach their routes.
type Registrar interface {
	Register(r chi.Router)
}

// Config carries what the middleware chain needs.
type Config struct {
	Logger          *slog.Logger
	Validator       middleware.TokenValidator
	Redis           *platformredis.Client
	RateLimitMax    int
	RateLimitWindow time.Duration
	RequestTimeout  time.Duration
}

// NewRouter builds the API router. Every admission route runs behind the
// full chain: recovery, correlation id, logging, timeout, JSON content
// type, client metadata, capability auth, then rate limiting keyed by the
// authenticated caller.
func NewRouter(cfg Config, handlers ...Registrar) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	root := chi.NewRouter()
	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	api := chi.NewRouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(cfg.Logger))
	api.Use(middleware.Timeout(cfg.RequestTimeout))
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.ClientMetadata)
	api.Use(middleware.RequireLicenceManager(cfg.Validator, cfg.Logger))
	api.Use(middleware.RateLimit(cfg.Redis, cfg.RateLimitMax, cfg.RateLimitWindow, cfg.Logger))

	for _, h := range handlers {
		h.Register(api)
	}

	root.Mount("/", api)
	return root
}
