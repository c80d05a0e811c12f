package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// January 2025 has 23 working days, so the fixture engineer has 230 hours:
// Apollo plans 5 h/day (115), Gemini 2 h/day (46), and the 8 logged hours on
// January 2 replace that day's 5 planned Apollo hours.

func TestResourceCapacityAllocation_Monthly(t *testing.T) {
	// GIVEN: The fixture engineer
	// WHEN: Requesting January monthly
	// THEN: Totals, per-project details and costs are rounded for the wire

	f := newFixture(t)

	rec := f.get("/api/resource_capacity_allocation?resource_id=" + id(f.ada) + "&start_date=2025-01-01&end_date=2025-01-31&interval=Monthly")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[ResourceCapacityResponse](t, rec)

	assert.Equal(t, "Ada", resp.Resource.Name)
	assert.Equal(t, "Monthly", resp.Interval)
	require.Len(t, resp.Data, 1)

	jan := resp.Data[0]
	assert.Equal(t, "2025-01-01", jan.StartDate)
	assert.Equal(t, "2025-01-31", jan.EndDate)
	assert.Equal(t, 23, jan.WorkingDays)
	assert.Equal(t, 230.0, jan.TotalCapacity)
	assert.Equal(t, 161.0, jan.Planned)
	assert.Equal(t, 8.0, jan.Actual)
	assert.Equal(t, 66.0, jan.Available)
	assert.Equal(t, 70.0, jan.PlannedPercentage)
	assert.Equal(t, 3.48, jan.ActualPercentage)
	assert.Equal(t, 16100.0, jan.CostPlanned)
	assert.Equal(t, 800.0, jan.CostActual)

	require.Len(t, jan.Projects, 2)
	assert.Equal(t, "Apollo", jan.Projects[0].ProjectName)
	assert.Equal(t, 115.0, jan.Projects[0].PlannedHours)
	assert.Equal(t, 50.0, jan.Projects[0].PlannedPercentage)
	assert.Equal(t, 8.0, jan.Projects[0].ActualHours)
	assert.Equal(t, "Gemini", jan.Projects[1].ProjectName)
	assert.Equal(t, 20.0, jan.Projects[1].PlannedPercentage)

	require.NotNil(t, jan.Cumulative)
	assert.Equal(t, 161.0, jan.Cumulative.Planned)
	assert.Equal(t, resp.Totals.Planned, jan.Planned)
}

func TestResourceCapacityAllocation_Blocks(t *testing.T) {
	// GIVEN: An explicitly empty interval
	// WHEN: Requesting January
	// THEN: The logged day splits the month into three change-point blocks

	f := newFixture(t)

	rec := f.get("/api/resource_capacity_allocation?resource_id=" + id(f.ada) + "&start_date=2025-01-01&end_date=2025-01-31&interval=")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[ResourceCapacityResponse](t, rec)

	assert.Equal(t, "blocks", resp.Interval)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "2025-01-01", resp.Data[0].EndDate)
	assert.Equal(t, "2025-01-02", resp.Data[1].StartDate)
	assert.Equal(t, 8.0, resp.Data[1].Actual)
	assert.Equal(t, "2025-01-03", resp.Data[2].StartDate)
	assert.Equal(t, "2025-01-31", resp.Data[2].EndDate)

	assert.Equal(t, 161.0, resp.Totals.Planned)
	assert.Equal(t, 230.0, resp.Totals.TotalCapacity)
}

func TestResourceCapacityAllocation_Defaults(t *testing.T) {
	// GIVEN: No range or interval parameters
	// WHEN: Requesting the view
	// THEN: The whole current year comes back monthly

	f := newFixture(t)

	rec := f.get("/api/resource_capacity_allocation?resource_id=" + id(f.ada))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[ResourceCapacityResponse](t, rec)

	assert.Equal(t, "2025-01-01", resp.StartDate)
	assert.Equal(t, "2025-12-31", resp.EndDate)
	assert.Equal(t, "Monthly", resp.Interval)
	assert.Len(t, resp.Data, 12)
	assert.Equal(t, 0.0, resp.Data[11].Planned)
}

func TestResourceCapacityAllocation_ProjectFilter(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/api/resource_capacity_allocation?resource_id=" + id(f.ada) + "&start_date=2025-01-01&end_date=2025-01-31&project_id=" + id(f.gemini))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[ResourceCapacityResponse](t, rec)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, 230.0, resp.Data[0].TotalCapacity)
	assert.Equal(t, 46.0, resp.Data[0].Planned)
	assert.Equal(t, 0.0, resp.Data[0].Actual)
	require.Len(t, resp.Data[0].Projects, 1)
	assert.Equal(t, "Gemini", resp.Data[0].Projects[0].ProjectName)

	// A project the resource never worked on yields no periods
	rec = f.get("/api/resource_capacity_allocation?resource_id=" + id(f.ada) + "&project_id=999")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decodeAs[ResourceCapacityResponse](t, rec).Data)
}

func TestResourceCapacity_TimeOffOnly(t *testing.T) {
	// GIVEN: A vacation week in January
	// WHEN: Requesting the capacity-only view
	// THEN: Capacity drops by five days and no allocations appear

	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/timeoff", CreateTimeOffRequest{
		ResourceID: int64(f.ada), StartDate: "2025-01-06", EndDate: "2025-01-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.get("/api/resource_capacity?resource_id=" + id(f.ada) + "&start_date=2025-01-01&end_date=2025-02-28")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[ResourceCapacityResponse](t, rec)

	require.Len(t, resp.Data, 2)
	assert.Equal(t, 180.0, resp.Data[0].TotalCapacity)
	assert.Equal(t, 180.0, resp.Data[0].Available)
	assert.Equal(t, 0.0, resp.Data[0].Planned)
	assert.Empty(t, resp.Data[0].Projects)
	assert.Equal(t, 200.0, resp.Data[1].TotalCapacity)

	require.NotNil(t, resp.Data[1].Cumulative)
	assert.Equal(t, 380.0, resp.Data[1].Cumulative.TotalCapacity)
}

func TestResourceCapacityAllocation_BadRequests(t *testing.T) {
	f := newFixture(t)
	base := "/api/resource_capacity_allocation?"

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing resource", "start_date=2025-01-01", http.StatusBadRequest},
		{"non-numeric resource", "resource_id=ada", http.StatusBadRequest},
		{"unknown resource", "resource_id=999", http.StatusNotFound},
		{"inverted range", "resource_id=" + id(f.ada) + "&start_date=2025-02-01&end_date=2025-01-01", http.StatusBadRequest},
		{"bad date", "resource_id=" + id(f.ada) + "&start_date=2025-13-01", http.StatusBadRequest},
		{"bad interval", "resource_id=" + id(f.ada) + "&interval=Daily", http.StatusBadRequest},
		{"bad project", "resource_id=" + id(f.ada) + "&project_id=-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.get(base + tt.query)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeAs[ErrorResponse](t, rec).Error)
		})
	}
}

func TestResourceCapacityAllocationByProject(t *testing.T) {
	// GIVEN: January and February monthly
	// WHEN: Requesting the per-project view
	// THEN: January has a row per project, February only Apollo

	f := newFixture(t)

	rec := f.get("/api/resource_capacity_allocation_by_project?resource_id=" + id(f.ada) + "&start_date=2025-01-01&end_date=2025-02-28")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[ResourceProjectsResponse](t, rec)

	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Apollo", resp.Data[0].ProjectName)
	assert.Equal(t, "2025-01-01", resp.Data[0].StartDate)
	assert.Equal(t, 230.0, resp.Data[0].TotalCapacity)
	assert.Equal(t, 11500.0, resp.Data[0].CostPlanned)
	assert.Equal(t, "Gemini", resp.Data[1].ProjectName)
	assert.Equal(t, "Apollo", resp.Data[2].ProjectName)
	assert.Equal(t, "2025-02-01", resp.Data[2].StartDate)
	assert.Equal(t, 100.0, resp.Data[2].PlannedHours)

	require.NotNil(t, resp.Data[2].Cumulative)
	assert.Equal(t, 215.0, resp.Data[2].Cumulative.PlannedHours)
}

// =============================================================================
// COMPOSED VIEWS
// =============================================================================

func TestProjectCapacityAllocation(t *testing.T) {
	// GIVEN: Apollo with estimated dates for Q1
	// WHEN: Requesting without and with an explicit range
	// THEN: The estimate drives the default range; the explicit one wins

	f := newFixture(t)

	rec := f.get("/api/project_capacity_allocation/" + id(f.apollo))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[ProjectCapacityResponse](t, rec)

	assert.Equal(t, "Apollo", resp.Project.Name)
	assert.Equal(t, "2025-01-01", resp.StartDate)
	assert.Equal(t, "2025-03-31", resp.EndDate)
	require.Len(t, resp.Data, 3)
	require.Len(t, resp.ResourceSummary, 1)
	assert.Equal(t, "Ada", resp.ResourceSummary[0].ResourceName)
	assert.Equal(t, 320.0, resp.Totals.Planned)
	assert.Empty(t, resp.Skipped)

	rec = f.get("/api/project_capacity_allocation/" + id(f.apollo) + "?start_date=2025-01-01&end_date=2025-01-31")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decodeAs[ProjectCapacityResponse](t, rec)
	require.Len(t, resp.Data, 1)
	jan := resp.Data[0]
	assert.Equal(t, 230.0, jan.TotalCapacity)
	assert.Equal(t, 115.0, jan.Planned)
	assert.Equal(t, 8.0, jan.Actual)
	require.Len(t, jan.Resources, 1)
	require.Len(t, jan.Resources[0].Projects, 1)
	assert.Equal(t, "Apollo", jan.Resources[0].Projects[0].ProjectName)
}

func TestProjectCapacityAllocation_Errors(t *testing.T) {
	f := newFixture(t)

	// Gemini has no estimated dates
	assert.Equal(t, http.StatusBadRequest, f.get("/api/project_capacity_allocation/"+id(f.gemini)).Code)
	assert.Equal(t, http.StatusNotFound, f.get("/api/project_capacity_allocation/999").Code)
	assert.Equal(t, http.StatusBadRequest, f.get("/api/project_capacity_allocation/abc").Code)
}

func TestResourceCapacityAllocationPerPortfolio(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/api/resource_capacity_allocation_per_portfolio?strategic_portfolio=Digital&start_date=2025-01-01&end_date=2025-01-31")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[PortfolioCapacityResponse](t, rec)

	assert.Equal(t, "Digital", resp.StrategicPortfolio)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 161.0, resp.Data[0].Planned)
	require.Len(t, resp.Data[0].Resources, 1)
	assert.Len(t, resp.Data[0].Resources[0].Projects, 2)

	assert.Equal(t, http.StatusBadRequest, f.get("/api/resource_capacity_allocation_per_portfolio").Code)
	assert.Equal(t, http.StatusNotFound, f.get("/api/resource_capacity_allocation_per_portfolio?strategic_portfolio=Ops").Code)
}

func TestResourceCapacityAllocationPerPortfolio_ProductLineOnly(t *testing.T) {
	// GIVEN: Ada on the Web product line
	// WHEN: Filtering by product line without a portfolio
	// THEN: The view is computed for Web's resources

	f := newFixture(t)

	rec := f.get("/api/resource_capacity_allocation_per_portfolio?product_line=Web&start_date=2025-01-01&end_date=2025-01-31")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[PortfolioCapacityResponse](t, rec)

	assert.Equal(t, "Web", resp.ProductLine)
	assert.Empty(t, resp.StrategicPortfolio)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 161.0, resp.Data[0].Planned)

	assert.Equal(t, http.StatusNotFound, f.get("/api/resource_capacity_allocation_per_portfolio?product_line=Infra").Code)
}

// =============================================================================
// SUMMARIES
// =============================================================================

func TestProjectSummary(t *testing.T) {
	// GIVEN: Apollo at 5 h/day over the 64 working days of Q1
	// WHEN: Summarizing the project
	// THEN: Planned is 320 hours at 100/h, actual the one logged day

	f := newFixture(t)

	rec := f.get("/api/allocations/project_summary?project_ids=" + id(f.apollo))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[[]ProjectSummaryDTO](t, rec)

	require.Len(t, resp, 1)
	assert.Equal(t, "Apollo", resp[0].ProjectName)
	assert.Equal(t, 320.0, resp[0].PlannedHours)
	assert.Equal(t, 32000.0, resp[0].PlannedCost)
	assert.Equal(t, 8.0, resp[0].ActualHours)
	assert.Equal(t, 800.0, resp[0].ActualCost)
	require.Len(t, resp[0].Resources, 1)
	assert.Equal(t, "Ada", resp[0].Resources[0].ResourceName)
	assert.Len(t, resp[0].Resources[0].Allocations, 1)

	assert.Equal(t, http.StatusBadRequest, f.get("/api/allocations/project_summary").Code)
}

func TestResourceRoleSummary(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/api/allocations/resource_role_summary?project_ids=" + id(f.apollo) + "&project_ids=" + id(f.gemini))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[[]ProjectRolesDTO](t, rec)

	require.Len(t, resp, 2)
	require.Len(t, resp[0].Roles, 1)
	assert.Equal(t, "Engineer", resp[0].Roles[0].Role)
	assert.Equal(t, 320.0, resp[0].Roles[0].PlannedHours)
	assert.Equal(t, "Gemini", resp[1].ProjectName)
	assert.Equal(t, 46.0, resp[1].PlannedHours)
}

func TestAllocationActualByInterval(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/api/allocation_actual_by_interval?project_ids=" + id(f.apollo) + "&start_date=2025-01-01&end_date=2025-03-31&interval=Monthly")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeAs[[]ActualsSeriesDTO](t, rec)

	require.Len(t, resp, 1)
	assert.Equal(t, "Monthly", resp[0].Interval)
	require.Len(t, resp[0].Data, 3)
	assert.Equal(t, 8.0, resp[0].Data[0].Hours)
	assert.Equal(t, 800.0, resp[0].Data[0].Cost)
	assert.Equal(t, 0.0, resp[0].Data[1].Hours)
	assert.Equal(t, 8.0, resp[0].Data[2].CumulativeHours)
	assert.Equal(t, 8.0, resp[0].TotalHours)

	// Blocks are not defined for actuals
	rec = f.get("/api/allocation_actual_by_interval?project_ids=" + id(f.apollo) + "&interval=")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
