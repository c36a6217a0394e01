/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/workers/*        Worker management, payroll, vacation, benefits
  /api/payroll/*        Bulk period runs
  /api/parameters/*     Statutory parameter snapshots
  /api/demo/*           Demo seed data
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Worker routes
		r.Route("/workers", func(r chi.Router) {
			r.Get("/", h.ListWorkers)
			r.Post("/", h.CreateWorker)
			r.Get("/{id}", h.GetWorker)

			r.Post("/{id}/payroll", h.RunPayroll)
			r.Get("/{id}/payroll", h.ListPayroll)
			r.Get("/{id}/payroll/{period}", h.GetPayrollPeriod)

			r.Get("/{id}/vacations", h.GetVacations)
			r.Post("/{id}/vacations", h.RequestVacation)

			r.Get("/{id}/thirteenth", h.GetThirteenth)
			r.Get("/{id}/fourteenth", h.GetFourteenth)
			r.Get("/{id}/reserve", h.GetReserve)

			r.Post("/{id}/liquidation", h.Liquidate)
			r.Get("/{id}/liquidation", h.GetSettlement)
		})

		// Bulk payroll runs
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/run", h.RunBulkPayroll)
		})

		// Parameter snapshots
		r.Route("/parameters", func(r chi.Router) {
			r.Get("/", h.ListParameterYears)
			r.Get("/{year}", h.GetParameters)
			r.Put("/{year}", h.PutParameters)
		})

		// Demo and dev routes
		r.Post("/demo/seed", h.SeedDemo)
		r.Post("/reset", h.ResetDatabase)
	})

	return r
}
