package core

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the global middleware chain, the authenticated /v1
// route group, and the unauthenticated health check.
//
// Middleware ordering:
//  1. Recoverer      - catches panics; outermost to catch all failures.
//  2. ContextTimeout - soft deadline before the platform hard timeout.
//  3. RequestID      - correlation ID for tracing.
//  4. RequestLogger  - structured logging with redacted headers.
//
// Auth applies only inside /v1 so the health check stays open to probes.
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(defaultRequestTimeout))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.Logger, defaultRedactedHeaders))

	s.router.Route("/v1", func(r chi.Router) {
		r.Use(s.AuthMiddleware)
		for _, registrar := range s.V1RouteRegistrars {
			registrar(r)
		}
	})

	s.router.Get("/health", s.HandleHealth)
}

// HandleHealth responds with the service liveness status.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, APIResponse{Data: map[string]string{
		"status":  "ok",
		"service": s.Config.Service,
	}})
}
