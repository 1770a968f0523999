// Package core provides the API chassis for the claimrelay service.
// It creates a chi router and enforces the cross-cutting concerns --
// recovery, request correlation, logging, authentication, and error
// formatting -- before requests reach the notification handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"claimrelay/internal/config"
	"claimrelay/internal/db"
)

// KeyStore is the subset of the API key repository used by the auth
// middleware.
type KeyStore interface {
	FindActiveByPrefix(ctx context.Context, prefix string) ([]db.APIKey, error)
	TouchUsed(ctx context.Context, id int64) error
}

// RouteRegistrar mounts a group of domain handler routes onto the v1
// router. Populated by the application entry point to avoid import cycles
// between core and handler packages.
type RouteRegistrar func(r chi.Router)

// Server bundles the API dependencies so tests can inject doubles and
// environments can be configured distinctly.
type Server struct {
	Config *config.Config
	Logger *slog.Logger
	Keys   KeyStore

	// V1RouteRegistrars are mounted under /v1 by MountRoutes.
	V1RouteRegistrars []RouteRegistrar

	router *chi.Mux
}

// NewServer validates the critical dependencies and prepares the router.
// The caller mounts routes after construction.
func NewServer(cfg *config.Config, keys KeyStore, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if cfg.Auth.Enabled && keys == nil {
		return nil, fmt.Errorf("key store must not be nil when auth is enabled")
	}

	return &Server{
		Config: cfg,
		Logger: logger,
		Keys:   keys,
		router: chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
