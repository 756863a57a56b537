package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/ethiq/pkg/usecase"
)

// ServerOption is a functional option for configuring Server
type ServerOption func(*serverConfig)

type serverConfig struct {
	metrics http.Handler
}

// WithMetricsHandler exposes the handler at /metrics
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(c *serverConfig) {
		c.metrics = h
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server exposing the registry as a JSON API
func NewServer(ctx context.Context, addr string, registry *usecase.Registry, opts ...ServerOption) *Server {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(CORS)

	h := &apiHandler{registry: registry}

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.listItems)
			r.Get("/{id}", h.getItem)
			r.Get("/{id}/history", h.getHistory)
			r.Post("/{id}/transition", h.transition)
		})
		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.listGroups)
			r.Get("/{id}", h.getGroup)
			r.Get("/{id}/score", h.getScore)
		})
		r.Get("/overview", h.overview)
		r.Get("/categories", h.categories)
	})

	if cfg.metrics != nil {
		router.Handle("/metrics", cfg.metrics)
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "ethiq",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}
