// Package router sets up all HTTP routes and middleware chains for the
// catalog API. Public reads live under /api, operator actions under /admin.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studiegids/internal/handlers"
	"studiegids/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(catalog *handlers.Catalog, curation *handlers.Curation) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS)

	// Health check.
	r.Get("/health", healthHandler)

	// Mutation endpoints share one limiter; the verification secret must
	// not be brute-forceable.
	limiter := middleware.NewRateLimiter(30, time.Minute)

	// Public catalog reads.
	r.Route("/api", func(r chi.Router) {
		r.Get("/courses", catalog.Courses)
		r.Get("/courses/{code}", catalog.Course)
		r.Get("/tags", catalog.Tags)
		r.Get("/profiles", catalog.Profiles)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/courses/{code}/edits", curation.SubmitEdit)
			r.Post("/verify", curation.Verify)
		})
	})

	// Operator actions.
	r.Route("/admin", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/ingest", curation.Ingest)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
