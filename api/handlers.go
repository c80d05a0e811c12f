/*
handlers.go - HTTP API handlers for the capacity engine

PURPOSE:
  Exposes the roster, projects, allocations, time-off and timesheet records
  over REST, plus the capacity views in capacity.go. Handles HTTP
  request/response and JSON serialization, and delegates to the store,
  the capacity engine and the rollup composer.

ENDPOINTS:
  Resources:
    GET    /api/resources                List resources (strategic_portfolio, product_line filters)
    POST   /api/resources                Create or replace a resource
    GET    /api/resources/{id}           Get one resource
    GET    /api/strategic_portfolios     Distinct portfolios
    GET    /api/product_lines/{portfolio} Distinct product lines of a portfolio

  Projects:
    GET    /api/projects                 List projects
    POST   /api/projects                 Create or replace a project
    GET    /api/projects/{id}            Get one project

  Allocations:
    GET    /api/allocations/resource/{id} Allocations of one resource
    GET    /api/allocations/project      Allocations of project_ids
    POST   /api/allocations              Create or replace an allocation
    DELETE /api/allocations/{id}         Delete an allocation

  Time-off and timesheet:
    GET    /api/timeoff/{resource_id}    Time-off of one resource
    POST   /api/timeoff                  Record time-off
    POST   /api/timesheet                Record a timesheet entry

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access (read and write)
  - Engine: Single-resource capacity pipeline
  - Composer: Multi-resource views and summaries

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid ranges or intervals
  - 404: Resource, project or allocation not found
  - 500: Internal errors, failed data fetches

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - capacity.go: Capacity and summary endpoints
  - dto.go: Request/response data structures
  - query.go: Parameter parsing and validation
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
	"github.com/warp/capacity-engine/rollup"
)

// allTime bounds record listings that take no date range.
var allTime = generic.Period{
	Start: generic.NewDate(1, 1, 1),
	End:   generic.NewDate(9999, 12, 31),
}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    generic.Store
	Engine   *capacity.Engine
	Composer *rollup.Composer

	// today anchors default date ranges; replaced in tests.
	today func() generic.Date

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a handler over the store. workers bounds the fan-out of
// composed views.
func NewHandler(store generic.Store, workers int) *Handler {
	return &Handler{
		Store:    store,
		Engine:   capacity.NewEngine(store),
		Composer: rollup.NewComposer(store, workers),
		today:    generic.Today,
	}
}

// =============================================================================
// RESOURCE HANDLERS
// =============================================================================

// ListResources returns resources, optionally filtered by portfolio and product line.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := generic.ResourceFilter{
		StrategicPortfolio: q.Get("strategic_portfolio"),
		ProductLine:        q.Get("product_line"),
	}

	resources, err := h.Store.ListResources(r.Context(), filter)
	if err != nil {
		writeFailure(w, "Failed to list resources", err)
		return
	}

	dtos := make([]ResourceDTO, len(resources))
	for i, res := range resources {
		dtos[i] = toResourceDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetResource returns a single resource.
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, "Invalid resource id", err)
		return
	}

	res, err := h.Store.GetResource(r.Context(), generic.ResourceID(id))
	if err != nil {
		writeFailure(w, "Failed to get resource", err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceDTO(*res))
}

// CreateResource creates a resource, or replaces it when resource_id is set.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, "Invalid request body", err)
		return
	}

	saved, err := h.Store.SaveResource(r.Context(), req.toResource())
	if err != nil {
		writeFailure(w, "Failed to save resource", err)
		return
	}
	writeJSON(w, http.StatusCreated, toResourceDTO(saved))
}

// ListStrategicPortfolios returns the distinct portfolios of the roster.
func (h *Handler) ListStrategicPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.Store.StrategicPortfolios(r.Context())
	if err != nil {
		writeFailure(w, "Failed to list strategic portfolios", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(portfolios))
}

// ListProductLines returns the distinct product lines within a portfolio.
func (h *Handler) ListProductLines(w http.ResponseWriter, r *http.Request) {
	portfolio := chi.URLParam(r, "portfolio")
	lines, err := h.Store.ProductLines(r.Context(), portfolio)
	if err != nil {
		writeFailure(w, "Failed to list product lines", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(lines))
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeFailure(w, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, "Invalid project id", err)
		return
	}

	project, err := h.Store.GetProject(r.Context(), generic.ProjectID(id))
	if err != nil {
		writeFailure(w, "Failed to get project", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// CreateProject creates a project, or replaces it when project_id is set.
// Estimated dates are optional but must not be inverted.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, "Invalid request body", err)
		return
	}

	project := generic.Project{
		ID:                 generic.ProjectID(req.ID),
		Name:               req.Name,
		StrategicPortfolio: req.StrategicPortfolio,
		ProductLine:        req.ProductLine,
		StartDateEst:       optionalDate(req.StartDateEst),
		EndDateEst:         optionalDate(req.EndDateEst),
		TimesheetName:      req.TimesheetName,
	}
	if est, ok := project.EstimatedPeriod(); ok {
		if err := est.Validate(); err != nil {
			writeFailure(w, "Invalid estimated dates", err)
			return
		}
	}

	saved, err := h.Store.SaveProject(r.Context(), project)
	if err != nil {
		writeFailure(w, "Failed to save project", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectDTO(saved))
}

// =============================================================================
// ALLOCATION HANDLERS
// =============================================================================

// ListResourceAllocations returns every allocation of one resource.
// GET /api/allocations/resource/{id}
func (h *Handler) ListResourceAllocations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, "Invalid resource id", err)
		return
	}

	allocs, err := h.Store.AllocationsForResource(r.Context(), generic.ResourceID(id), allTime)
	if err != nil {
		writeFailure(w, "Failed to list allocations", err)
		return
	}
	writeJSON(w, http.StatusOK, toAllocationDTOs(allocs))
}

// ListProjectAllocations returns the allocations of the requested projects.
// GET /api/allocations/project?project_ids=1&project_ids=2
func (h *Handler) ListProjectAllocations(w http.ResponseWriter, r *http.Request) {
	ids, err := parseProjectIDs(r.URL.Query())
	if err != nil {
		writeFailure(w, "Invalid project_ids", err)
		return
	}

	allocs, err := h.Store.AllocationsForProjects(r.Context(), ids)
	if err != nil {
		writeFailure(w, "Failed to list allocations", err)
		return
	}
	writeJSON(w, http.StatusOK, toAllocationDTOs(allocs))
}

// CreateAllocation stores an allocation. Inverted ranges and allocations
// without a pct or hours per week are rejected.
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req CreateAllocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, "Invalid request body", err)
		return
	}
	if req.Pct == nil && req.HrsPerWeek == nil {
		writeFailure(w, "Invalid request body", &generic.FieldError{
			Field:   "allocation_pct",
			Message: "allocation_pct or allocation_hrs_per_week is required",
		})
		return
	}

	alloc := generic.Allocation{
		ID:         generic.AllocationID(req.ID),
		ResourceID: generic.ResourceID(req.ResourceID),
		ProjectID:  generic.ProjectID(req.ProjectID),
		Start:      generic.MustParseDate(req.StartDate),
		End:        generic.MustParseDate(req.EndDate),
		Pct:        req.Pct,
		HrsPerWeek: req.HrsPerWeek,
	}
	if err := alloc.Period().Validate(); err != nil {
		writeFailure(w, "Invalid allocation range", err)
		return
	}

	saved, err := h.Store.SaveAllocation(r.Context(), alloc)
	if err != nil {
		writeFailure(w, "Failed to save allocation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAllocationDTO(saved))
}

func (h *Handler) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeFailure(w, "Invalid allocation id", err)
		return
	}

	if err := h.Store.DeleteAllocation(r.Context(), generic.AllocationID(id)); err != nil {
		writeFailure(w, "Failed to delete allocation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TIME-OFF AND TIMESHEET HANDLERS
// =============================================================================

// ListTimeOff returns every time-off range of one resource.
// GET /api/timeoff/{resource_id}
func (h *Handler) ListTimeOff(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "resource_id")
	if err != nil {
		writeFailure(w, "Invalid resource id", err)
		return
	}

	ranges, err := h.Store.TimeOffForResource(r.Context(), generic.ResourceID(id), allTime)
	if err != nil {
		writeFailure(w, "Failed to list time-off", err)
		return
	}

	dtos := make([]TimeOffDTO, len(ranges))
	for i, t := range ranges {
		dtos[i] = toTimeOffDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	var req CreateTimeOffRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, "Invalid request body", err)
		return
	}

	off := generic.TimeOff{
		ResourceID: generic.ResourceID(req.ResourceID),
		Start:      generic.MustParseDate(req.StartDate),
		End:        generic.MustParseDate(req.EndDate),
		Reason:     req.Reason,
	}
	if err := off.Period().Validate(); err != nil {
		writeFailure(w, "Invalid time-off range", err)
		return
	}

	saved, err := h.Store.SaveTimeOff(r.Context(), off)
	if err != nil {
		writeFailure(w, "Failed to save time-off", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeOffDTO(saved))
}

func (h *Handler) CreateTimesheetEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateTimesheetEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, "Invalid request body", err)
		return
	}

	saved, err := h.Store.SaveTimesheetEntry(r.Context(), generic.TimesheetEntry{
		ResourceID: generic.ResourceID(req.ResourceID),
		ProjectID:  generic.ProjectID(req.ProjectID),
		Date:       generic.MustParseDate(req.Date),
		Hours:      req.Hours,
	})
	if err != nil {
		writeFailure(w, "Failed to save timesheet entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimesheetEntryDTO(saved))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeFailure picks the status from the error's kind.
func writeFailure(w http.ResponseWriter, message string, err error) {
	writeError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	switch {
	case generic.IsClientError(err):
		return http.StatusBadRequest
	case generic.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func optionalDate(s string) *generic.Date {
	if s == "" {
		return nil
	}
	d := generic.MustParseDate(s)
	return &d
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
