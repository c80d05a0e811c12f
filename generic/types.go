/*
Package generic provides the shared vocabulary of the capacity engine.

PURPOSE:
  Typed records for everything the engine reads: resources (people),
  projects, allocations, time-off and timesheet actuals. These are the
  data contracts between the persistence layer and the computation; the
  engine never sees SQL rows or open maps.

KEY CONCEPTS IN THIS FILE (types.go):
  - Resource:   A person with a yearly capacity and a blended hourly rate
  - Allocation: A planned commitment of a resource to a project
  - TimeOff:    A range of days the resource is fully unavailable
  - TimesheetActual: Hours worked, pre-summed per resource/project/day

DESIGN PRINCIPLES:
  1. Precision: Money (blended_rate) uses decimal.Decimal
  2. Type Safety: Distinct ResourceID / ProjectID types
  3. Explicit policy: an allocation is percentage-based OR hours-based

SEE ALSO:
  - time.go, period.go: Date and Period
  - store.go: Read and write interfaces over these records
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// WorkdaysPerYear converts yearly capacity into daily capacity.
const WorkdaysPerYear = 261

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ResourceID int64
type ProjectID int64
type AllocationID int64

// =============================================================================
// RESOURCE
// =============================================================================

// Resource is a person whose time is allocated to projects.
type Resource struct {
	ID                 ResourceID
	Name               string
	Email              string
	Type               string // e.g., "Employee", "Contractor"
	Role               string
	StrategicPortfolio string
	ProductLine        string
	ManagerName        string
	ManagerEmail       string
	YearlyCapacity     float64         // hours per year
	BlendedRate        decimal.Decimal // cost per hour
	TimesheetName      string          // identity in the external timesheet system
}

// DailyCapacity is yearly capacity spread evenly over the working year.
func (r Resource) DailyCapacity() float64 {
	return r.YearlyCapacity / WorkdaysPerYear
}

// ResourceFilter narrows ListResources. Empty fields match everything.
type ResourceFilter struct {
	StrategicPortfolio string
	ProductLine        string
}

// Matches reports whether the resource passes the filter.
func (f ResourceFilter) Matches(r Resource) bool {
	if f.StrategicPortfolio != "" && r.StrategicPortfolio != f.StrategicPortfolio {
		return false
	}
	if f.ProductLine != "" && r.ProductLine != f.ProductLine {
		return false
	}
	return true
}

// =============================================================================
// PROJECT
// =============================================================================

type Project struct {
	ID                 ProjectID
	Name               string
	StrategicPortfolio string
	ProductLine        string
	StartDateEst       *Date
	EndDateEst         *Date
	TimesheetName      string
}

// EstimatedPeriod returns the project's estimated span, if both ends are known.
func (p Project) EstimatedPeriod() (Period, bool) {
	if p.StartDateEst == nil || p.EndDateEst == nil {
		return Period{}, false
	}
	return Period{Start: *p.StartDateEst, End: *p.EndDateEst}, true
}

// =============================================================================
// ALLOCATION
// =============================================================================

// Allocation commits a resource to a project over a date range.
// Exactly one of Pct and HrsPerWeek drives the plan: HrsPerWeek wins when set.
type Allocation struct {
	ID         AllocationID
	ResourceID ResourceID
	ProjectID  ProjectID
	Start      Date
	End        Date
	Pct        *float64 // percentage of daily capacity, 0-100+ (over-allocation allowed)
	HrsPerWeek *float64 // fixed weekly hours
}

func (a Allocation) Period() Period {
	return Period{Start: a.Start, End: a.End}
}

// Active reports whether the allocation covers the day.
func (a Allocation) Active(d Date) bool {
	return a.Period().Contains(d)
}

// DailyHours is the planned contribution on one working day.
func (a Allocation) DailyHours(dailyCapacity float64) float64 {
	if a.HrsPerWeek != nil {
		return *a.HrsPerWeek / 5
	}
	if a.Pct != nil {
		return dailyCapacity * (*a.Pct / 100)
	}
	return 0
}

// =============================================================================
// TIME-OFF AND TIMESHEET
// =============================================================================

// TimeOff marks a range of days on which the resource has no capacity.
type TimeOff struct {
	ID         string
	ResourceID ResourceID
	Start      Date
	End        Date
	Reason     string
}

func (t TimeOff) Period() Period {
	return Period{Start: t.Start, End: t.End}
}

// TimesheetActual is hours worked, already summed per resource, project and day.
type TimesheetActual struct {
	ResourceID ResourceID
	ProjectID  ProjectID
	Date       Date
	Hours      float64
}

// TimesheetEntry is one raw timesheet row as written by the ingestion side.
type TimesheetEntry struct {
	ID         string
	ResourceID ResourceID
	ProjectID  ProjectID
	Date       Date
	Hours      float64
}

// Float is a helper for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
