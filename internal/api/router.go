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

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Owner endpoints
		r.Route("/owners", func(r chi.Router) {
			r.Get("/", s.handleListOwners)
			r.Post("/", s.handleCreateOwner)
			r.Get("/options", s.handleOwnerOptions)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetOwner)
				r.Put("/", s.handleUpdateOwner)
				r.Delete("/", s.handleDeleteOwner)
			})
		})

		// Car endpoints
		r.Route("/cars", func(r chi.Router) {
			r.Get("/", s.handleListCars)
			r.Post("/", s.handleCreateCar)
			r.Get("/options", s.handleCarOptions)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetCar)
				r.Put("/", s.handleUpdateCar)
				r.Delete("/", s.handleDeleteCar)
				r.Get("/repairs", s.handleListCarRepairs)
			})
		})

		// Repair endpoints
		r.Route("/repairs", func(r chi.Router) {
			r.Get("/", s.handleListRepairs)
			r.Post("/", s.handleCreateRepair)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRepair)
				r.Put("/", s.handleUpdateRepair)
				r.Delete("/", s.handleDeleteRepair)
			})
		})

		// Report endpoints
		r.Get("/reports/repairs", s.handleRepairReport)

		// WebSocket refresh events
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":  status,
		"version": s.version,
	})
}
