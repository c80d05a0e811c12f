package capacity

import "github.com/warp/capacity-engine/generic"

// =============================================================================
// ALLOCATION DISTRIBUTOR
// =============================================================================

// Distributor spreads allocations onto working days.
//
// Per allocation and working day:
//   - hrs_per_week set: hrs_per_week / 5
//   - otherwise:        daily_capacity * pct / 100
//
// Allocations to the same project on the same day add up. Nothing is capped:
// a resource at 150% stays at 150%.
type Distributor struct {
	dailyCapacity float64
	allocations   []generic.Allocation
}

func NewDistributor(dailyCapacity float64, allocations []generic.Allocation) Distributor {
	return Distributor{dailyCapacity: dailyCapacity, allocations: allocations}
}

// PlannedFor returns planned hours per project for one day.
// Only allocations whose own range contains the day contribute.
func (d Distributor) PlannedFor(day generic.Date) map[generic.ProjectID]float64 {
	planned := make(map[generic.ProjectID]float64)
	for _, a := range d.allocations {
		if !a.Active(day) {
			continue
		}
		planned[a.ProjectID] += a.DailyHours(d.dailyCapacity)
	}
	return planned
}

// =============================================================================
// ACTUALS AGGREGATOR
// =============================================================================

// ActualsIndex holds timesheet hours by day and project.
type ActualsIndex map[generic.Date]map[generic.ProjectID]float64

// IndexActuals places pre-summed rows on the daily grid.
// Duplicate (day, project) rows are summed.
func IndexActuals(rows []generic.TimesheetActual) ActualsIndex {
	ix := make(ActualsIndex)
	for _, row := range rows {
		byProject, ok := ix[row.Date]
		if !ok {
			byProject = make(map[generic.ProjectID]float64)
			ix[row.Date] = byProject
		}
		byProject[row.ProjectID] += row.Hours
	}
	return ix
}

// For returns a copy of the day's actual hours per project.
func (ix ActualsIndex) For(day generic.Date) map[generic.ProjectID]float64 {
	out := make(map[generic.ProjectID]float64, len(ix[day]))
	for p, h := range ix[day] {
		out[p] = h
	}
	return out
}
