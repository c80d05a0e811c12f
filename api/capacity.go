package api

import (
	"net/http"
	"time"

	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
	"github.com/warp/capacity-engine/metrics"
)

// =============================================================================
// SINGLE-RESOURCE VIEWS
// =============================================================================

// ResourceCapacity returns working capacity per interval with time-off
// applied and no allocations.
// GET /api/resource_capacity?resource_id=1&start_date=2025-01-01&end_date=2025-12-31&interval=Monthly
func (h *Handler) ResourceCapacity(w http.ResponseWriter, r *http.Request) {
	q, err := h.resourceQuery(r)
	if err != nil {
		writeFailure(w, "Invalid query", err)
		return
	}
	q.CapacityOnly = true
	q.ProjectID = 0

	res, ok := h.compute(w, r, "resource_capacity", q)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResourceCapacityResponse(res))
}

// ResourceCapacityAllocation returns capacity, planned and actual hours per
// interval, broken down by project.
// GET /api/resource_capacity_allocation?resource_id=1&interval=&project_id=3
func (h *Handler) ResourceCapacityAllocation(w http.ResponseWriter, r *http.Request) {
	q, err := h.resourceQuery(r)
	if err != nil {
		writeFailure(w, "Invalid query", err)
		return
	}

	res, ok := h.compute(w, r, "resource_allocation", q)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResourceCapacityResponse(res))
}

// ResourceCapacityAllocationByProject returns one row per project per interval.
// GET /api/resource_capacity_allocation_by_project?resource_id=1
func (h *Handler) ResourceCapacityAllocationByProject(w http.ResponseWriter, r *http.Request) {
	q, err := h.resourceQuery(r)
	if err != nil {
		writeFailure(w, "Invalid query", err)
		return
	}

	res, ok := h.compute(w, r, "resource_by_project", q)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResourceProjectsResponse(res))
}

// resourceQuery reads resource_id, project_id and the range parameters.
func (h *Handler) resourceQuery(r *http.Request) (capacity.Query, error) {
	values := r.URL.Query()
	rid, err := parseID("resource_id", values.Get("resource_id"))
	if err != nil {
		return capacity.Query{}, err
	}
	pid, err := optionalID("project_id", values.Get("project_id"))
	if err != nil {
		return capacity.Query{}, err
	}
	rng, err := parseRange(values, h.today())
	if err != nil {
		return capacity.Query{}, err
	}
	return capacity.Query{
		ResourceID: generic.ResourceID(rid),
		ProjectID:  generic.ProjectID(pid),
		Period:     rng.Period,
		Interval:   rng.Interval,
	}, nil
}

func (h *Handler) compute(w http.ResponseWriter, r *http.Request, view string, q capacity.Query) (*capacity.Result, bool) {
	start := time.Now()
	res, err := h.Engine.Compute(r.Context(), q)
	if err != nil {
		writeFailure(w, "Failed to compute capacity", err)
		return nil, false
	}
	observe(view, q.Interval, len(res.Records), start)
	return res, true
}

// =============================================================================
// COMPOSED VIEWS
// =============================================================================

// ProjectCapacityAllocation rolls up every resource allocated to the project.
// Without start_date and end_date the project's estimated dates are used.
// GET /api/project_capacity_allocation/{project_id}?interval=Weekly
func (h *Handler) ProjectCapacityAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "project_id")
	if err != nil {
		writeFailure(w, "Invalid project id", err)
		return
	}
	rng, err := parseRange(r.URL.Query(), h.today())
	if err != nil {
		writeFailure(w, "Invalid query", err)
		return
	}
	var period *generic.Period
	if rng.Explicit {
		period = &rng.Period
	}

	start := time.Now()
	view, err := h.Composer.ProjectView(r.Context(), generic.ProjectID(id), period, rng.Interval)
	if err != nil {
		writeFailure(w, "Failed to compute project capacity", err)
		return
	}
	observe("project", rng.Interval, len(view.Periods), start)

	writeJSON(w, http.StatusOK, ProjectCapacityResponse{
		Project:      toProjectDTO(view.Project),
		ComposedView: toComposedView(view.View),
	})
}

// ResourceCapacityAllocationPerPortfolio rolls up every resource matching a
// strategic portfolio and/or product line.
// GET /api/resource_capacity_allocation_per_portfolio?strategic_portfolio=Digital&product_line=Web
func (h *Handler) ResourceCapacityAllocationPerPortfolio(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	filter := generic.ResourceFilter{
		StrategicPortfolio: values.Get("strategic_portfolio"),
		ProductLine:        values.Get("product_line"),
	}
	if filter.StrategicPortfolio == "" && filter.ProductLine == "" {
		writeFailure(w, "Invalid query", &generic.FieldError{Field: "strategic_portfolio", Message: "or product_line is required"})
		return
	}
	rng, err := parseRange(values, h.today())
	if err != nil {
		writeFailure(w, "Invalid query", err)
		return
	}

	start := time.Now()
	view, err := h.Composer.PortfolioView(r.Context(), filter, rng.Period, rng.Interval)
	if err != nil {
		writeFailure(w, "Failed to compute portfolio capacity", err)
		return
	}
	observe("portfolio", rng.Interval, len(view.Periods), start)

	writeJSON(w, http.StatusOK, PortfolioCapacityResponse{
		StrategicPortfolio: filter.StrategicPortfolio,
		ProductLine:        filter.ProductLine,
		ComposedView:       toComposedView(view.View),
	})
}

// =============================================================================
// SUMMARIES
// =============================================================================

// ProjectSummary totals planned and actual hours and cost per project.
// GET /api/allocations/project_summary?project_ids=1,2
func (h *Handler) ProjectSummary(w http.ResponseWriter, r *http.Request) {
	ids, err := parseProjectIDs(r.URL.Query())
	if err != nil {
		writeFailure(w, "Invalid project_ids", err)
		return
	}

	summaries, err := h.Composer.ProjectSummaries(r.Context(), ids)
	if err != nil {
		writeFailure(w, "Failed to summarize projects", err)
		return
	}

	dtos := make([]ProjectSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = ProjectSummaryDTO{
			ProjectID:   int64(s.ProjectID),
			ProjectName: s.ProjectName,
			FiguresDTO:  toFiguresDTO(s.Figures),
			Resources:   toAssignmentDTOs(s.Assignments),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResourceRoleSummary groups each project's assignments by resource role.
// GET /api/allocations/resource_role_summary?project_ids=1
func (h *Handler) ResourceRoleSummary(w http.ResponseWriter, r *http.Request) {
	ids, err := parseProjectIDs(r.URL.Query())
	if err != nil {
		writeFailure(w, "Invalid project_ids", err)
		return
	}

	projects, err := h.Composer.RoleSummaries(r.Context(), ids)
	if err != nil {
		writeFailure(w, "Failed to summarize roles", err)
		return
	}

	dtos := make([]ProjectRolesDTO, len(projects))
	for i, p := range projects {
		roles := make([]RoleSummaryDTO, len(p.Roles))
		for j, role := range p.Roles {
			roles[j] = RoleSummaryDTO{
				Role:       role.Role,
				FiguresDTO: toFiguresDTO(role.Figures),
				Resources:  toAssignmentDTOs(role.Assignments),
			}
		}
		dtos[i] = ProjectRolesDTO{
			ProjectID:   int64(p.ProjectID),
			ProjectName: p.ProjectName,
			FiguresDTO:  toFiguresDTO(p.Figures),
			Roles:       roles,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AllocationActualByInterval buckets each project's timesheet hours by week
// or month. Blocks are not supported here.
// GET /api/allocation_actual_by_interval?project_ids=1&interval=Weekly
func (h *Handler) AllocationActualByInterval(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	ids, err := parseProjectIDs(values)
	if err != nil {
		writeFailure(w, "Invalid project_ids", err)
		return
	}
	rng, err := parseRange(values, h.today())
	if err != nil {
		writeFailure(w, "Invalid query", err)
		return
	}

	start := time.Now()
	series, err := h.Composer.ActualsByInterval(r.Context(), ids, rng.Period, rng.Interval)
	if err != nil {
		writeFailure(w, "Failed to bucket actuals", err)
		return
	}

	dtos := make([]ActualsSeriesDTO, len(series))
	periods := 0
	for i, s := range series {
		dtos[i] = toActualsSeriesDTO(s, rng.Interval)
		periods += len(s.Periods)
	}
	observe("actuals", rng.Interval, periods, start)
	writeJSON(w, http.StatusOK, dtos)
}

func observe(view string, iv capacity.Interval, periods int, start time.Time) {
	metrics.PipelineDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	metrics.PeriodsEmitted.WithLabelValues(view, iv.Label()).Observe(float64(periods))
}
