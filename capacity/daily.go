package capacity

import (
	"sort"

	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// DAILY CAPACITY RECORD
// =============================================================================

// DailyRecord is one resource's figures for one working day.
// It depends only on that day's inputs.
type DailyRecord struct {
	Date          generic.Date
	TotalCapacity float64
	TimeOff       bool
	Planned       map[generic.ProjectID]float64
	Actual        map[generic.ProjectID]float64
}

func (r DailyRecord) PlannedHours() float64 { return sum(r.Planned) }
func (r DailyRecord) ActualHours() float64  { return sum(r.Actual) }

// UsedHours counts, per project, actual hours when there are any and
// planned hours otherwise. Actuals replace the plan; they never add to it.
func (r DailyRecord) UsedHours() float64 {
	used := 0.0
	for _, p := range r.ProjectIDs() {
		if actual := r.Actual[p]; actual > 0 {
			used += actual
		} else {
			used += r.Planned[p]
		}
	}
	return used
}

// Available is capacity minus used hours. It can go negative on an
// over-allocated day; intervals clamp it.
func (r DailyRecord) Available() float64 {
	return r.TotalCapacity - r.UsedHours()
}

// ProjectIDs lists every project with planned or actual hours, ascending.
func (r DailyRecord) ProjectIDs() []generic.ProjectID {
	seen := make(map[generic.ProjectID]bool, len(r.Planned)+len(r.Actual))
	ids := make([]generic.ProjectID, 0, len(r.Planned)+len(r.Actual))
	for _, m := range []map[generic.ProjectID]float64{r.Planned, r.Actual} {
		for p := range m {
			if !seen[p] {
				seen[p] = true
				ids = append(ids, p)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// =============================================================================
// SERIES BUILDER
// =============================================================================

// BuildDay computes a single working day. Time-off wins over everything:
// capacity, plan and actuals are all zero on a day off.
func BuildDay(day generic.Date, dailyCapacity float64, mask TimeOffMask, dist Distributor, actuals ActualsIndex) DailyRecord {
	if mask.Unavailable(day) {
		return DailyRecord{
			Date:    day,
			TimeOff: true,
			Planned: map[generic.ProjectID]float64{},
			Actual:  map[generic.ProjectID]float64{},
		}
	}
	return DailyRecord{
		Date:          day,
		TotalCapacity: dailyCapacity,
		Planned:       dist.PlannedFor(day),
		Actual:        actuals.For(day),
	}
}

// BuildSeries returns one record per working day of the period, in order.
func BuildSeries(in Input, period generic.Period) []DailyRecord {
	dailyCapacity := in.Resource.DailyCapacity()
	mask := NewTimeOffMask(in.TimeOff)
	dist := NewDistributor(dailyCapacity, in.Allocations)
	actuals := IndexActuals(in.Actuals)

	workdays := period.Workdays()
	series := make([]DailyRecord, 0, len(workdays))
	for _, day := range workdays {
		series = append(series, BuildDay(day, dailyCapacity, mask, dist, actuals))
	}
	return series
}

// sum adds in project order so repeated runs produce identical floats.
func sum(m map[generic.ProjectID]float64) float64 {
	ids := make([]generic.ProjectID, 0, len(m))
	for p := range m {
		ids = append(ids, p)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	total := 0.0
	for _, p := range ids {
		total += m[p]
	}
	return total
}
