package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// The action-multiplexed endpoint the mobile app calls. Registered for
	// all methods: the dispatcher enforces per-action method preconditions
	// itself so that a GET of a POST-only action yields the contractual
	// "POST method required" envelope rather than a 405.
	r.HandleFunc(s.cfg.Endpoint, s.handleAction)

	// Deployment health probe, outside the action contract.
	r.Get("/healthz", s.handleHealth)

	return r
}

// handleHealth returns the server health status, including a database ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.HealthCheck(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "unavailable",
			"version": s.version,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
