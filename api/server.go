/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the scheduling UI

SECURITY NOTE:
  No authentication middleware; authentication belongs to the surrounding
  application, not this engine shell.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CreateShift)
			r.Post("/preview", h.PreviewShift)
			r.Get("/{id}", h.GetShift)
		})

		// Contract routes
		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", h.ListContracts)
			r.Post("/", h.CreateContract)
		})

		// Absence routes
		r.Route("/absences", func(r chi.Router) {
			r.Get("/", h.ListAbsences)
			r.Post("/", h.CreateAbsence)
			r.Post("/{id}/approve", h.ApproveAbsence)
			r.Post("/{id}/reject", h.RejectAbsence)
		})

		// Leave routes
		r.Route("/leave", func(r chi.Router) {
			r.Get("/balance", h.GetLeaveBalance)
			r.Get("/family-events", h.ListFamilyEvents)
		})

		// Rules
		r.Get("/rules", h.GetRules)
	})

	r.Get("/healthz", h.Healthz)

	return r
}
