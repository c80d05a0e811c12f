/*
partition.go - Interval partitioner

PURPOSE:
  Groups a daily series into reporting intervals and aggregates each one.

WINDOWS:
  Weekly:   Monday-Sunday. The first window starts at the query start and
            the last one ends at the query end, so boundary weeks may be
            shorter than seven days.
  Monthly:  Calendar months. A single-month query is one window equal to
            the query range. Otherwise the first window runs from the
            query start to its month end, middle months are whole, and the
            last runs from its month start to the query end.
  None:     One window per working day (input to the block compressor).

  A window with no working day (e.g. a Saturday-Sunday query) carries no
  capacity and is not emitted.

AGGREGATION:
  Sums over member days. available = capacity - used, where used is summed
  day by day, then clamped to [0, capacity]. Percentages are hours over the
  interval's capacity.

SEE ALSO:
  - daily.go: The series being partitioned
  - block.go: Merges the per-day intervals
*/
package capacity

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/capacity-engine/generic"
)

// Windows splits a period into interval windows, in order. Weekend-only
// windows are included; Partition drops them.
func Windows(period generic.Period, iv Interval) []generic.Period {
	var windows []generic.Period
	switch iv {
	case IntervalWeekly:
		for start := period.Start; start.BeforeOrEqual(period.End); {
			end := generic.MinDate(start.EndOfWeek(), period.End)
			windows = append(windows, generic.Period{Start: start, End: end})
			start = end.AddDays(1)
		}
	case IntervalMonthly:
		for start := period.Start; start.BeforeOrEqual(period.End); {
			end := generic.MinDate(start.EndOfMonth(), period.End)
			windows = append(windows, generic.Period{Start: start, End: end})
			start = end.AddDays(1)
		}
	default:
		for _, day := range period.Workdays() {
			windows = append(windows, generic.Period{Start: day, End: day})
		}
	}
	return windows
}

// Partition aggregates the series into the given windows.
// Both series and windows must be in chronological order.
func Partition(series []DailyRecord, windows []generic.Period, in Input) []Record {
	records := make([]Record, 0, len(windows))
	i := 0
	for _, w := range windows {
		for i < len(series) && series[i].Date.Before(w.Start) {
			i++
		}
		j := i
		for j < len(series) && w.Contains(series[j].Date) {
			j++
		}
		if j == i {
			continue
		}
		records = append(records, aggregate(w, series[i:j], in))
		i = j
	}
	return records
}

func aggregate(window generic.Period, days []DailyRecord, in Input) Record {
	rate := in.Resource.BlendedRate
	rec := Record{Period: window, WorkingDays: len(days)}

	planned := make(map[generic.ProjectID]float64)
	actual := make(map[generic.ProjectID]float64)
	used := 0.0
	for _, d := range days {
		rec.TotalCapacity += d.TotalCapacity
		rec.Planned += d.PlannedHours()
		rec.Actual += d.ActualHours()
		used += d.UsedHours()
		for p, h := range d.Planned {
			planned[p] += h
		}
		for p, h := range d.Actual {
			actual[p] += h
		}
	}
	rec.Available = clamp(rec.TotalCapacity-used, 0, rec.TotalCapacity)
	rec.CostPlanned = Cost(rec.Planned, rate)
	rec.CostActual = Cost(rec.Actual, rate)
	rec.Projects = projectDetails(planned, actual, rec.TotalCapacity, rate, in.projectName)
	return rec
}

func projectDetails(
	planned, actual map[generic.ProjectID]float64,
	capacity float64,
	rate decimal.Decimal,
	name func(generic.ProjectID) string,
) []ProjectDetail {
	ids := make([]generic.ProjectID, 0, len(planned)+len(actual))
	seen := make(map[generic.ProjectID]bool)
	for _, m := range []map[generic.ProjectID]float64{planned, actual} {
		for p := range m {
			if !seen[p] {
				seen[p] = true
				ids = append(ids, p)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	details := make([]ProjectDetail, 0, len(ids))
	for _, p := range ids {
		details = append(details, ProjectDetail{
			ProjectID:         p,
			ProjectName:       name(p),
			PlannedHours:      planned[p],
			ActualHours:       actual[p],
			PlannedPercentage: Percentage(planned[p], capacity),
			ActualPercentage:  Percentage(actual[p], capacity),
			CostPlanned:       Cost(planned[p], rate),
			CostActual:        Cost(actual[p], rate),
		})
	}
	return details
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
