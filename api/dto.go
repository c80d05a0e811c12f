/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain records (generic, capacity, rollup) from the wire contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Top-level response wrappers

ROUNDING:
  The engine never rounds. Conversion to a DTO is the only place numbers
  are rounded: hours to 1 decimal, percentages and money to 2.

VALIDATION:
  Request types carry go-playground/validator tags, checked in handlers
  through validate() (query.go).

SEE ALSO:
  - handlers.go, capacity.go: Use these types
  - query.go: Query-string parsing and validation
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
	"github.com/warp/capacity-engine/rollup"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

type ResourceDTO struct {
	ID                 int64   `json:"resource_id"`
	Name               string  `json:"resource_name"`
	Email              string  `json:"resource_email"`
	Type               string  `json:"resource_type"`
	Role               string  `json:"resource_role"`
	StrategicPortfolio string  `json:"strategic_portfolio"`
	ProductLine        string  `json:"product_line"`
	ManagerName        string  `json:"manager_name"`
	ManagerEmail       string  `json:"manager_email"`
	YearlyCapacity     float64 `json:"yearly_capacity"`
	BlendedRate        float64 `json:"blended_rate"`
	TimesheetName      string  `json:"timesheet_resource_name"`
}

// CreateResourceRequest is the body of POST /api/resources.
type CreateResourceRequest struct {
	ID                 int64   `json:"resource_id" validate:"gte=0"`
	Name               string  `json:"resource_name" validate:"required"`
	Email              string  `json:"resource_email" validate:"omitempty,email"`
	Type               string  `json:"resource_type"`
	Role               string  `json:"resource_role"`
	StrategicPortfolio string  `json:"strategic_portfolio"`
	ProductLine        string  `json:"product_line"`
	ManagerName        string  `json:"manager_name"`
	ManagerEmail       string  `json:"manager_email" validate:"omitempty,email"`
	YearlyCapacity     float64 `json:"yearly_capacity" validate:"gte=0,lte=8784"`
	BlendedRate        float64 `json:"blended_rate" validate:"gte=0,lte=1000000"`
	TimesheetName      string  `json:"timesheet_resource_name"`
}

type ProjectDTO struct {
	ID                 int64   `json:"project_id"`
	Name               string  `json:"project_name"`
	StrategicPortfolio string  `json:"strategic_portfolio"`
	ProductLine        string  `json:"product_line"`
	StartDateEst       *string `json:"start_date_est"`
	EndDateEst         *string `json:"end_date_est"`
	TimesheetName      string  `json:"timesheet_project_name"`
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	ID                 int64  `json:"project_id" validate:"gte=0"`
	Name               string `json:"project_name" validate:"required"`
	StrategicPortfolio string `json:"strategic_portfolio"`
	ProductLine        string `json:"product_line"`
	StartDateEst       string `json:"start_date_est" validate:"omitempty,datetime=2006-01-02"`
	EndDateEst         string `json:"end_date_est" validate:"omitempty,datetime=2006-01-02"`
	TimesheetName      string `json:"timesheet_project_name"`
}

type AllocationDTO struct {
	ID         int64    `json:"allocation_id"`
	ResourceID int64    `json:"resource_id"`
	ProjectID  int64    `json:"project_id"`
	StartDate  string   `json:"allocation_start_date"`
	EndDate    string   `json:"allocation_end_date"`
	Pct        *float64 `json:"allocation_pct"`
	HrsPerWeek *float64 `json:"allocation_hrs_per_week"`
}

// CreateAllocationRequest is the body of POST /api/allocations. One of
// allocation_pct and allocation_hrs_per_week is required; when both are
// set, hours per week wins.
type CreateAllocationRequest struct {
	ID         int64    `json:"allocation_id" validate:"gte=0"`
	ResourceID int64    `json:"resource_id" validate:"required,gt=0"`
	ProjectID  int64    `json:"project_id" validate:"required,gt=0"`
	StartDate  string   `json:"allocation_start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string   `json:"allocation_end_date" validate:"required,datetime=2006-01-02"`
	Pct        *float64 `json:"allocation_pct" validate:"omitempty,gte=0,lte=1000"`
	HrsPerWeek *float64 `json:"allocation_hrs_per_week" validate:"omitempty,gte=0,lte=168"`
}

type TimeOffDTO struct {
	ID         string `json:"timeoff_id"`
	ResourceID int64  `json:"resource_id"`
	StartDate  string `json:"timeoff_start_date"`
	EndDate    string `json:"timeoff_end_date"`
	Reason     string `json:"reason"`
}

// CreateTimeOffRequest is the body of POST /api/timeoff.
type CreateTimeOffRequest struct {
	ResourceID int64  `json:"resource_id" validate:"required,gt=0"`
	StartDate  string `json:"timeoff_start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"timeoff_end_date" validate:"required,datetime=2006-01-02"`
	Reason     string `json:"reason"`
}

type TimesheetEntryDTO struct {
	ID         string  `json:"ts_entry_id"`
	ResourceID int64   `json:"resource_id"`
	ProjectID  int64   `json:"project_id"`
	Date       string  `json:"ts_entry_date"`
	Hours      float64 `json:"ts_total_hrs"`
}

// CreateTimesheetEntryRequest is the body of POST /api/timesheet.
type CreateTimesheetEntryRequest struct {
	ResourceID int64   `json:"resource_id" validate:"required,gt=0"`
	ProjectID  int64   `json:"project_id" validate:"required,gt=0"`
	Date       string  `json:"ts_entry_date" validate:"required,datetime=2006-01-02"`
	Hours      float64 `json:"ts_total_hrs" validate:"gt=0,lte=24"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CAPACITY TYPES
// =============================================================================

// TotalsDTO is the rounded figure set shared by periods, cumulatives and totals.
type TotalsDTO struct {
	TotalCapacity     float64 `json:"total_capacity"`
	Planned           float64 `json:"allocation_hours_planned"`
	Actual            float64 `json:"allocation_hours_actual"`
	Available         float64 `json:"available_capacity"`
	PlannedPercentage float64 `json:"planned_percentage"`
	ActualPercentage  float64 `json:"actual_percentage"`
	CostPlanned       float64 `json:"allocation_cost_planned"`
	CostActual        float64 `json:"allocation_cost_actual"`
}

type ProjectCumulativeDTO struct {
	PlannedHours      float64 `json:"planned_hours"`
	ActualHours       float64 `json:"actual_hours"`
	PlannedPercentage float64 `json:"planned_percentage"`
	ActualPercentage  float64 `json:"actual_percentage"`
	CostPlanned       float64 `json:"cost_planned"`
	CostActual        float64 `json:"cost_actual"`
}

type ProjectDetailDTO struct {
	ProjectID         int64                 `json:"project_id"`
	ProjectName       string                `json:"project_name"`
	PlannedHours      float64               `json:"planned_hours"`
	ActualHours       float64               `json:"actual_hours"`
	PlannedPercentage float64               `json:"planned_percentage"`
	ActualPercentage  float64               `json:"actual_percentage"`
	CostPlanned       float64               `json:"cost_planned"`
	CostActual        float64               `json:"cost_actual"`
	Cumulative        *ProjectCumulativeDTO `json:"cumulative,omitempty"`
}

// PeriodDTO is one interval or block of a single-resource series.
type PeriodDTO struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	WorkingDays int    `json:"working_days"`
	TotalsDTO
	Projects   []ProjectDetailDTO `json:"project_allocation_details"`
	Cumulative *TotalsDTO         `json:"cumulative,omitempty"`
}

// ResourceCapacityResponse answers the single-resource capacity endpoints.
type ResourceCapacityResponse struct {
	Resource  ResourceDTO `json:"resource_details"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Interval  string      `json:"interval"`
	Data      []PeriodDTO `json:"data"`
	Totals    TotalsDTO   `json:"totals"`
}

// ProjectPeriodDTO is one project's share of one interval.
type ProjectPeriodDTO struct {
	StartDate         string                `json:"start_date"`
	EndDate           string                `json:"end_date"`
	ProjectID         int64                 `json:"project_id"`
	ProjectName       string                `json:"project_name"`
	TotalCapacity     float64               `json:"total_capacity"`
	PlannedHours      float64               `json:"allocation_hours_planned"`
	ActualHours       float64               `json:"allocation_hours_actual"`
	PlannedPercentage float64               `json:"planned_percentage"`
	ActualPercentage  float64               `json:"actual_percentage"`
	CostPlanned       float64               `json:"allocation_cost_planned"`
	CostActual        float64               `json:"allocation_cost_actual"`
	Cumulative        *ProjectCumulativeDTO `json:"cumulative,omitempty"`
}

// ResourceProjectsResponse answers /resource_capacity_allocation_by_project.
type ResourceProjectsResponse struct {
	Resource  ResourceDTO        `json:"resource_details"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Interval  string             `json:"interval"`
	Data      []ProjectPeriodDTO `json:"data"`
}

// ResourceFiguresDTO is one resource's share of a composed period.
type ResourceFiguresDTO struct {
	ResourceID   int64  `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	ResourceRole string `json:"resource_role"`
	TotalsDTO
	Projects   []ProjectDetailDTO `json:"project_allocation_details"`
	Cumulative *TotalsDTO         `json:"cumulative,omitempty"`
}

type ComposedPeriodDTO struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	WorkingDays int    `json:"working_days"`
	TotalsDTO
	Cumulative *TotalsDTO           `json:"cumulative,omitempty"`
	Resources  []ResourceFiguresDTO `json:"resource_details"`
}

// ComposedView is the body shared by the project and portfolio views.
type ComposedView struct {
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
	Interval        string               `json:"interval"`
	Data            []ComposedPeriodDTO  `json:"data"`
	ResourceSummary []ResourceFiguresDTO `json:"resource_summary"`
	Totals          TotalsDTO            `json:"totals"`
	Skipped         []int64              `json:"skipped_resources"`
}

type ProjectCapacityResponse struct {
	Project ProjectDTO `json:"project_details"`
	ComposedView
}

type PortfolioCapacityResponse struct {
	StrategicPortfolio string `json:"strategic_portfolio"`
	ProductLine        string `json:"product_line"`
	ComposedView
}

// =============================================================================
// SUMMARY TYPES
// =============================================================================

type FiguresDTO struct {
	PlannedHours float64 `json:"allocation_hours_planned"`
	ActualHours  float64 `json:"allocation_hours_actual"`
	PlannedCost  float64 `json:"allocation_cost_planned"`
	ActualCost   float64 `json:"allocation_cost_actual"`
}

type AssignmentDTO struct {
	ResourceID   int64   `json:"resource_id"`
	ResourceName string  `json:"resource_name"`
	ResourceRole string  `json:"resource_role"`
	BlendedRate  float64 `json:"blended_rate"`
	FiguresDTO
	Allocations []AllocationDTO `json:"allocations"`
}

type ProjectSummaryDTO struct {
	ProjectID   int64  `json:"project_id"`
	ProjectName string `json:"project_name"`
	FiguresDTO
	Resources []AssignmentDTO `json:"resources"`
}

type RoleSummaryDTO struct {
	Role string `json:"resource_role"`
	FiguresDTO
	Resources []AssignmentDTO `json:"resources"`
}

type ProjectRolesDTO struct {
	ProjectID   int64  `json:"project_id"`
	ProjectName string `json:"project_name"`
	FiguresDTO
	Roles []RoleSummaryDTO `json:"roles"`
}

type ActualsPeriodDTO struct {
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Hours           float64 `json:"actual_hours"`
	Cost            float64 `json:"actual_cost"`
	CumulativeHours float64 `json:"cumulative_actual_hours"`
	CumulativeCost  float64 `json:"cumulative_actual_cost"`
}

type ActualsSeriesDTO struct {
	ProjectID   int64              `json:"project_id"`
	ProjectName string             `json:"project_name"`
	Interval    string             `json:"interval"`
	Data        []ActualsPeriodDTO `json:"data"`
	TotalHours  float64            `json:"total_actual_hours"`
	TotalCost   float64            `json:"total_actual_cost"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toResourceDTO(r generic.Resource) ResourceDTO {
	return ResourceDTO{
		ID:                 int64(r.ID),
		Name:               r.Name,
		Email:              r.Email,
		Type:               r.Type,
		Role:               r.Role,
		StrategicPortfolio: r.StrategicPortfolio,
		ProductLine:        r.ProductLine,
		ManagerName:        r.ManagerName,
		ManagerEmail:       r.ManagerEmail,
		YearlyCapacity:     r.YearlyCapacity,
		BlendedRate:        capacity.RoundCost(r.BlendedRate),
		TimesheetName:      r.TimesheetName,
	}
}

func (req CreateResourceRequest) toResource() generic.Resource {
	return generic.Resource{
		ID:                 generic.ResourceID(req.ID),
		Name:               req.Name,
		Email:              req.Email,
		Type:               req.Type,
		Role:               req.Role,
		StrategicPortfolio: req.StrategicPortfolio,
		ProductLine:        req.ProductLine,
		ManagerName:        req.ManagerName,
		ManagerEmail:       req.ManagerEmail,
		YearlyCapacity:     req.YearlyCapacity,
		BlendedRate:        decimal.NewFromFloat(req.BlendedRate),
		TimesheetName:      req.TimesheetName,
	}
}

func toProjectDTO(p generic.Project) ProjectDTO {
	return ProjectDTO{
		ID:                 int64(p.ID),
		Name:               p.Name,
		StrategicPortfolio: p.StrategicPortfolio,
		ProductLine:        p.ProductLine,
		StartDateEst:       dateString(p.StartDateEst),
		EndDateEst:         dateString(p.EndDateEst),
		TimesheetName:      p.TimesheetName,
	}
}

func toAllocationDTO(a generic.Allocation) AllocationDTO {
	return AllocationDTO{
		ID:         int64(a.ID),
		ResourceID: int64(a.ResourceID),
		ProjectID:  int64(a.ProjectID),
		StartDate:  a.Start.String(),
		EndDate:    a.End.String(),
		Pct:        a.Pct,
		HrsPerWeek: a.HrsPerWeek,
	}
}

func toAllocationDTOs(allocs []generic.Allocation) []AllocationDTO {
	out := make([]AllocationDTO, len(allocs))
	for i, a := range allocs {
		out[i] = toAllocationDTO(a)
	}
	return out
}

func toTimeOffDTO(t generic.TimeOff) TimeOffDTO {
	return TimeOffDTO{
		ID:         t.ID,
		ResourceID: int64(t.ResourceID),
		StartDate:  t.Start.String(),
		EndDate:    t.End.String(),
		Reason:     t.Reason,
	}
}

func toTimesheetEntryDTO(e generic.TimesheetEntry) TimesheetEntryDTO {
	return TimesheetEntryDTO{
		ID:         e.ID,
		ResourceID: int64(e.ResourceID),
		ProjectID:  int64(e.ProjectID),
		Date:       e.Date.String(),
		Hours:      e.Hours,
	}
}

func toTotalsDTO(t capacity.Totals) TotalsDTO {
	return TotalsDTO{
		TotalCapacity:     capacity.RoundHours(t.TotalCapacity),
		Planned:           capacity.RoundHours(t.Planned),
		Actual:            capacity.RoundHours(t.Actual),
		Available:         capacity.RoundHours(t.Available),
		PlannedPercentage: capacity.RoundPercent(t.PlannedPercentage()),
		ActualPercentage:  capacity.RoundPercent(t.ActualPercentage()),
		CostPlanned:       capacity.RoundCost(t.CostPlanned),
		CostActual:        capacity.RoundCost(t.CostActual),
	}
}

func toCumulativeDTO(c *capacity.Cumulative) *TotalsDTO {
	if c == nil {
		return nil
	}
	dto := toTotalsDTO(c.Totals)
	dto.PlannedPercentage = capacity.RoundPercent(c.PlannedPercentage)
	dto.ActualPercentage = capacity.RoundPercent(c.ActualPercentage)
	return &dto
}

func toProjectCumulativeDTO(c *capacity.ProjectCumulative) *ProjectCumulativeDTO {
	if c == nil {
		return nil
	}
	return &ProjectCumulativeDTO{
		PlannedHours:      capacity.RoundHours(c.PlannedHours),
		ActualHours:       capacity.RoundHours(c.ActualHours),
		PlannedPercentage: capacity.RoundPercent(c.PlannedPercentage),
		ActualPercentage:  capacity.RoundPercent(c.ActualPercentage),
		CostPlanned:       capacity.RoundCost(c.CostPlanned),
		CostActual:        capacity.RoundCost(c.CostActual),
	}
}

func toProjectDetailDTOs(details []capacity.ProjectDetail) []ProjectDetailDTO {
	out := make([]ProjectDetailDTO, len(details))
	for i, p := range details {
		out[i] = ProjectDetailDTO{
			ProjectID:         int64(p.ProjectID),
			ProjectName:       p.ProjectName,
			PlannedHours:      capacity.RoundHours(p.PlannedHours),
			ActualHours:       capacity.RoundHours(p.ActualHours),
			PlannedPercentage: capacity.RoundPercent(p.PlannedPercentage),
			ActualPercentage:  capacity.RoundPercent(p.ActualPercentage),
			CostPlanned:       capacity.RoundCost(p.CostPlanned),
			CostActual:        capacity.RoundCost(p.CostActual),
			Cumulative:        toProjectCumulativeDTO(p.Cumulative),
		}
	}
	return out
}

func toPeriodDTOs(records []capacity.Record) []PeriodDTO {
	out := make([]PeriodDTO, len(records))
	for i, rec := range records {
		out[i] = PeriodDTO{
			StartDate:   rec.Start.String(),
			EndDate:     rec.End.String(),
			WorkingDays: rec.WorkingDays,
			TotalsDTO:   toTotalsDTO(rec.Totals),
			Projects:    toProjectDetailDTOs(rec.Projects),
			Cumulative:  toCumulativeDTO(rec.Cumulative),
		}
	}
	return out
}

func toResourceCapacityResponse(res *capacity.Result) ResourceCapacityResponse {
	var total capacity.Totals
	for _, rec := range res.Records {
		total = total.Add(rec.Totals)
	}
	return ResourceCapacityResponse{
		Resource:  toResourceDTO(res.Resource),
		StartDate: res.Query.Period.Start.String(),
		EndDate:   res.Query.Period.End.String(),
		Interval:  res.Query.Interval.Label(),
		Data:      toPeriodDTOs(res.Records),
		Totals:    toTotalsDTO(total),
	}
}

// toResourceProjectsResponse flattens every period into one row per project.
func toResourceProjectsResponse(res *capacity.Result) ResourceProjectsResponse {
	rows := []ProjectPeriodDTO{}
	for _, rec := range res.Records {
		for _, p := range rec.Projects {
			rows = append(rows, ProjectPeriodDTO{
				StartDate:         rec.Start.String(),
				EndDate:           rec.End.String(),
				ProjectID:         int64(p.ProjectID),
				ProjectName:       p.ProjectName,
				TotalCapacity:     capacity.RoundHours(rec.TotalCapacity),
				PlannedHours:      capacity.RoundHours(p.PlannedHours),
				ActualHours:       capacity.RoundHours(p.ActualHours),
				PlannedPercentage: capacity.RoundPercent(p.PlannedPercentage),
				ActualPercentage:  capacity.RoundPercent(p.ActualPercentage),
				CostPlanned:       capacity.RoundCost(p.CostPlanned),
				CostActual:        capacity.RoundCost(p.CostActual),
				Cumulative:        toProjectCumulativeDTO(p.Cumulative),
			})
		}
	}
	return ResourceProjectsResponse{
		Resource:  toResourceDTO(res.Resource),
		StartDate: res.Query.Period.Start.String(),
		EndDate:   res.Query.Period.End.String(),
		Interval:  res.Query.Interval.Label(),
		Data:      rows,
	}
}

func toResourceFiguresDTOs(figs []rollup.ResourceFigures) []ResourceFiguresDTO {
	out := make([]ResourceFiguresDTO, len(figs))
	for i, f := range figs {
		projects := f.Projects
		if projects == nil {
			projects = []capacity.ProjectDetail{}
		}
		out[i] = ResourceFiguresDTO{
			ResourceID:   int64(f.Resource.ID),
			ResourceName: f.Resource.Name,
			ResourceRole: f.Resource.Role,
			TotalsDTO:    toTotalsDTO(f.Totals),
			Projects:     toProjectDetailDTOs(projects),
			Cumulative:   toCumulativeDTO(f.Cumulative),
		}
	}
	return out
}

func toComposedView(v rollup.View) ComposedView {
	periods := make([]ComposedPeriodDTO, len(v.Periods))
	for i, p := range v.Periods {
		periods[i] = ComposedPeriodDTO{
			StartDate:   p.Start.String(),
			EndDate:     p.End.String(),
			WorkingDays: p.WorkingDays,
			TotalsDTO:   toTotalsDTO(p.Totals),
			Cumulative:  toCumulativeDTO(p.Cumulative),
			Resources:   toResourceFiguresDTOs(p.Resources),
		}
	}
	skipped := make([]int64, len(v.Skipped))
	for i, id := range v.Skipped {
		skipped[i] = int64(id)
	}
	return ComposedView{
		StartDate:       v.Period.Start.String(),
		EndDate:         v.Period.End.String(),
		Interval:        v.Interval.Label(),
		Data:            periods,
		ResourceSummary: toResourceFiguresDTOs(v.ResourceSummary),
		Totals:          toTotalsDTO(v.Totals),
		Skipped:         skipped,
	}
}

func toFiguresDTO(f rollup.Figures) FiguresDTO {
	return FiguresDTO{
		PlannedHours: capacity.RoundHours(f.PlannedHours),
		ActualHours:  capacity.RoundHours(f.ActualHours),
		PlannedCost:  capacity.RoundCost(f.PlannedCost),
		ActualCost:   capacity.RoundCost(f.ActualCost),
	}
}

func toAssignmentDTOs(assignments []rollup.Assignment) []AssignmentDTO {
	out := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		out[i] = AssignmentDTO{
			ResourceID:   int64(a.Resource.ID),
			ResourceName: a.Resource.Name,
			ResourceRole: a.Resource.Role,
			BlendedRate:  capacity.RoundCost(a.Resource.BlendedRate),
			FiguresDTO:   toFiguresDTO(a.Figures),
			Allocations:  toAllocationDTOs(a.Allocations),
		}
	}
	return out
}

func toActualsSeriesDTO(s rollup.ActualsSeries, iv capacity.Interval) ActualsSeriesDTO {
	data := make([]ActualsPeriodDTO, len(s.Periods))
	for i, p := range s.Periods {
		data[i] = ActualsPeriodDTO{
			StartDate:       p.Start.String(),
			EndDate:         p.End.String(),
			Hours:           capacity.RoundHours(p.Hours),
			Cost:            capacity.RoundCost(p.Cost),
			CumulativeHours: capacity.RoundHours(p.CumulativeHours),
			CumulativeCost:  capacity.RoundCost(p.CumulativeCost),
		}
	}
	return ActualsSeriesDTO{
		ProjectID:   int64(s.ProjectID),
		ProjectName: s.ProjectName,
		Interval:    iv.Label(),
		Data:        data,
		TotalHours:  capacity.RoundHours(s.TotalHours),
		TotalCost:   capacity.RoundCost(s.TotalCost),
	}
}

func dateString(d *generic.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
