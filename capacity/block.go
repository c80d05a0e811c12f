package capacity

import (
	"sort"

	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// BLOCK COMPRESSOR
// =============================================================================

// MatchMode selects what must stay unchanged for two periods to share a block.
type MatchMode int

const (
	// MatchTotals compares capacity, planned, actual and available within Tolerance.
	MatchTotals MatchMode = iota
	// MatchTotalsAndProjects also requires an identical project breakdown.
	MatchTotalsAndProjects
)

// CompressBy merges maximal runs of consecutive items for which same holds
// between each item and the run's first member. Order is preserved.
func CompressBy[T any](items []T, same func(a, b T) bool, merge func(a, b T) T) []T {
	out := make([]T, 0, len(items))
	if len(items) == 0 {
		return out
	}
	head := items[0]
	block := items[0]
	for _, item := range items[1:] {
		if same(head, item) {
			block = merge(block, item)
			continue
		}
		out = append(out, block)
		head, block = item, item
	}
	return append(out, block)
}

// Compress collapses consecutive records into blocks. Records must not yet
// carry cumulative values.
func Compress(records []Record, mode MatchMode) []Record {
	same := func(a, b Record) bool {
		if !a.Totals.Matches(b.Totals) {
			return false
		}
		return mode == MatchTotals || sameProjects(a.Projects, b.Projects)
	}
	return CompressBy(records, same, Merge)
}

// Merge extends a with b. Spans join, aggregates add, and per-project
// percentages are recomputed against the joined capacity.
func Merge(a, b Record) Record {
	merged := Record{
		Period:      generic.Period{Start: a.Start, End: b.End},
		WorkingDays: a.WorkingDays + b.WorkingDays,
		Totals:      a.Totals.Add(b.Totals),
	}
	merged.Projects = MergeProjects(a.Projects, b.Projects, merged.TotalCapacity)
	return merged
}

// MergeProjects sums two breakdowns per project.
func MergeProjects(a, b []ProjectDetail, capacity float64) []ProjectDetail {
	byID := make(map[generic.ProjectID]ProjectDetail, len(a)+len(b))
	for _, list := range [][]ProjectDetail{a, b} {
		for _, p := range list {
			cur, ok := byID[p.ProjectID]
			if !ok {
				cur = ProjectDetail{ProjectID: p.ProjectID, ProjectName: p.ProjectName}
			}
			cur.PlannedHours += p.PlannedHours
			cur.ActualHours += p.ActualHours
			cur.CostPlanned = cur.CostPlanned.Add(p.CostPlanned)
			cur.CostActual = cur.CostActual.Add(p.CostActual)
			byID[p.ProjectID] = cur
		}
	}
	out := make([]ProjectDetail, 0, len(byID))
	for _, p := range byID {
		p.PlannedPercentage = Percentage(p.PlannedHours, capacity)
		p.ActualPercentage = Percentage(p.ActualHours, capacity)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID < out[j].ProjectID })
	return out
}

// sameProjects is exact structural equality on the breakdown.
func sameProjects(a, b []ProjectDetail) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProjectID != b[i].ProjectID ||
			a[i].ProjectName != b[i].ProjectName ||
			a[i].PlannedHours != b[i].PlannedHours ||
			a[i].ActualHours != b[i].ActualHours {
			return false
		}
	}
	return true
}
