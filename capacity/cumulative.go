package capacity

import "github.com/warp/capacity-engine/generic"

// =============================================================================
// CUMULATIVE ACCUMULATOR
// =============================================================================

// Accumulator keeps one running Totals set.
type Accumulator struct {
	running Totals
}

// Add folds in one period and returns the totals to date.
func (a *Accumulator) Add(t Totals) Cumulative {
	a.running = a.running.Add(t)
	return Cumulative{
		Totals:            a.running,
		PlannedPercentage: a.running.PlannedPercentage(),
		ActualPercentage:  a.running.ActualPercentage(),
	}
}

// Keyed keeps an independent running set per key (project, resource).
type Keyed[K comparable] struct {
	sets map[K]*Accumulator
}

func NewKeyed[K comparable]() *Keyed[K] {
	return &Keyed[K]{sets: make(map[K]*Accumulator)}
}

// Add folds t into key's running set.
func (k *Keyed[K]) Add(key K, t Totals) Cumulative {
	acc, ok := k.sets[key]
	if !ok {
		acc = &Accumulator{}
		k.sets[key] = acc
	}
	return acc.Add(t)
}

// Accumulate walks records in order and attaches aggregate and per-project
// cumulatives. A project's cumulative percentages are taken against the
// aggregate cumulative capacity.
func Accumulate(records []Record) {
	var total Accumulator
	projects := NewKeyed[generic.ProjectID]()
	for i := range records {
		rec := &records[i]
		cum := total.Add(rec.Totals)
		rec.Cumulative = &cum
		for j := range rec.Projects {
			p := &rec.Projects[j]
			pc := projects.Add(p.ProjectID, Totals{
				Planned:     p.PlannedHours,
				Actual:      p.ActualHours,
				CostPlanned: p.CostPlanned,
				CostActual:  p.CostActual,
			})
			p.Cumulative = &ProjectCumulative{
				PlannedHours:      pc.Planned,
				ActualHours:       pc.Actual,
				CostPlanned:       pc.CostPlanned,
				CostActual:        pc.CostActual,
				PlannedPercentage: Percentage(pc.Planned, cum.TotalCapacity),
				ActualPercentage:  Percentage(pc.Actual, cum.TotalCapacity),
			}
		}
	}
}
