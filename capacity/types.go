/*
Package capacity turns a resource's calendar, allocations, timesheet
actuals and time-off into time-bucketed capacity and utilization series.

PIPELINE:
  1. Daily series    (daily.go)       one record per working day
  2. Partition       (partition.go)   Weekly, Monthly or one interval per day
  3. Compress        (block.go)       run-length merge when no interval is given
  4. Accumulate      (cumulative.go)  running totals, aggregate and per project

  Engine (engine.go) loads one resource's rows through generic.Source and
  runs the pipeline. Everything after loading is pure computation.

NUMBERS:
  Hours are float64 and never rounded inside the pipeline. Costs are
  decimal.Decimal. Rounding (round.go) happens once, when a result is
  rendered for a client.

SEE ALSO:
  - generic/: Date, Period, records, Source
  - rollup/: Cross-resource and cross-project composition
*/
package capacity

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// INTERVAL
// =============================================================================

type Interval string

const (
	IntervalNone    Interval = "" // blocks
	IntervalWeekly  Interval = "Weekly"
	IntervalMonthly Interval = "Monthly"
)

// ParseInterval accepts "Weekly", "Monthly" or "" (blocks).
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalNone, IntervalWeekly, IntervalMonthly:
		return Interval(s), nil
	}
	return "", fmt.Errorf("%w: %q (expected Weekly, Monthly or empty)", generic.ErrInvalidInterval, s)
}

// Label is used for metrics and logs.
func (i Interval) Label() string {
	if i == IntervalNone {
		return "blocks"
	}
	return string(i)
}

// =============================================================================
// TOTALS - The scalar tuple every period carries
// =============================================================================

// Tolerance is the absolute difference under which two hour figures are equal.
const Tolerance = 0.001

type Totals struct {
	TotalCapacity float64
	Planned       float64
	Actual        float64
	Available     float64
	CostPlanned   decimal.Decimal
	CostActual    decimal.Decimal
}

// Add sums two tuples field by field.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		TotalCapacity: t.TotalCapacity + o.TotalCapacity,
		Planned:       t.Planned + o.Planned,
		Actual:        t.Actual + o.Actual,
		Available:     t.Available + o.Available,
		CostPlanned:   t.CostPlanned.Add(o.CostPlanned),
		CostActual:    t.CostActual.Add(o.CostActual),
	}
}

// Matches compares the hour figures within Tolerance.
// Costs follow from hours and are not compared.
func (t Totals) Matches(o Totals) bool {
	return near(t.TotalCapacity, o.TotalCapacity) &&
		near(t.Planned, o.Planned) &&
		near(t.Actual, o.Actual) &&
		near(t.Available, o.Available)
}

func (t Totals) PlannedPercentage() float64 { return Percentage(t.Planned, t.TotalCapacity) }
func (t Totals) ActualPercentage() float64  { return Percentage(t.Actual, t.TotalCapacity) }

func near(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// =============================================================================
// RECORDS
// =============================================================================

// ProjectDetail is one project's share of a period.
type ProjectDetail struct {
	ProjectID         generic.ProjectID
	ProjectName       string
	PlannedHours      float64
	ActualHours       float64
	PlannedPercentage float64
	ActualPercentage  float64
	CostPlanned       decimal.Decimal
	CostActual        decimal.Decimal
	Cumulative        *ProjectCumulative
}

// ProjectCumulative is a project's running totals up to and including the period.
type ProjectCumulative struct {
	PlannedHours      float64
	ActualHours       float64
	CostPlanned       decimal.Decimal
	CostActual        decimal.Decimal
	PlannedPercentage float64
	ActualPercentage  float64
}

// Cumulative is the aggregate running totals up to and including the period.
type Cumulative struct {
	Totals
	PlannedPercentage float64
	ActualPercentage  float64
}

// Record is one interval (or block) of a single resource's series.
type Record struct {
	generic.Period
	WorkingDays int
	Totals
	Projects   []ProjectDetail // sorted by ProjectID
	Cumulative *Cumulative
}

// Project returns the breakdown entry for id, if present.
func (r Record) Project(id generic.ProjectID) (ProjectDetail, bool) {
	for _, p := range r.Projects {
		if p.ProjectID == id {
			return p, true
		}
	}
	return ProjectDetail{}, false
}

// Input is everything the pipeline needs for one resource.
type Input struct {
	Resource     generic.Resource
	Allocations  []generic.Allocation
	TimeOff      []generic.TimeOff
	Actuals      []generic.TimesheetActual
	ProjectNames map[generic.ProjectID]string
}

// UnknownProjectName labels breakdown entries whose project has no name on record.
const UnknownProjectName = "Unknown Project"

func (in Input) projectName(id generic.ProjectID) string {
	if name, ok := in.ProjectNames[id]; ok && name != "" {
		return name
	}
	return UnknownProjectName
}
