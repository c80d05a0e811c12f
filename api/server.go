/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /healthz                Liveness and database ping
  /metrics                Prometheus scrape endpoint
  /api/resources/*        Roster
  /api/projects/*         Projects
  /api/allocations/*      Allocations and allocation summaries
  /api/timeoff/*          Time-off
  /api/timesheet          Timesheet entries
  /api/resource_capacity* Capacity views
  /api/scenarios/*        Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go, capacity.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/capacity-engine/metrics"
)

// NewRouter creates a new router with all routes configured. allowedOrigins
// feeds the CORS policy.
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

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/resources", func(r chi.Router) {
			r.Get("/", h.ListResources)
			r.Post("/", h.CreateResource)
			r.Get("/{id}", h.GetResource)
		})
		r.Get("/strategic_portfolios", h.ListStrategicPortfolios)
		r.Get("/product_lines/{portfolio}", h.ListProductLines)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
		})

		r.Route("/allocations", func(r chi.Router) {
			r.Get("/resource/{id}", h.ListResourceAllocations)
			r.Get("/project", h.ListProjectAllocations)
			r.Get("/project_summary", h.ProjectSummary)
			r.Get("/resource_role_summary", h.ResourceRoleSummary)
			r.Post("/", h.CreateAllocation)
			r.Delete("/{id}", h.DeleteAllocation)
		})

		r.Get("/timeoff/{resource_id}", h.ListTimeOff)
		r.Post("/timeoff", h.CreateTimeOff)
		r.Post("/timesheet", h.CreateTimesheetEntry)

		// Capacity views
		r.Get("/resource_capacity", h.ResourceCapacity)
		r.Get("/resource_capacity_allocation", h.ResourceCapacityAllocation)
		r.Get("/resource_capacity_allocation_by_project", h.ResourceCapacityAllocationByProject)
		r.Get("/resource_capacity_allocation_per_portfolio", h.ResourceCapacityAllocationPerPortfolio)
		r.Get("/project_capacity_allocation/{project_id}", h.ProjectCapacityAllocation)
		r.Get("/allocation_actual_by_interval", h.AllocationActualByInterval)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports ok, pinging the database when the store supports it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
