package capacity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/capacity-engine/generic"
)

func TestAccumulate_MonotonicForNonNegativeMetrics(t *testing.T) {
	// GIVEN: A weekly series over a quarter with mixed load
	// WHEN: Accumulating
	// THEN: Every cumulative metric is non-decreasing period over period

	in := Input{
		Resource: tenHourResource(),
		Allocations: []generic.Allocation{
			pctAlloc(1, "2025-01-01", "2025-02-28", 50),
			hoursAlloc(2, "2025-02-01", "2025-03-31", 10),
		},
		TimeOff: []generic.TimeOff{timeOff("2025-03-10", "2025-03-14")},
		Actuals: []generic.TimesheetActual{actual(1, "2025-01-15", 7)},
	}
	records := Run(in, Query{ResourceID: 1, Period: span("2025-01-01", "2025-03-31"), Interval: IntervalWeekly})
	require.Greater(t, len(records), 10)

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1].Cumulative, records[i].Cumulative
		require.NotNil(t, cur)
		assert.GreaterOrEqual(t, cur.TotalCapacity, prev.TotalCapacity)
		assert.GreaterOrEqual(t, cur.Planned, prev.Planned)
		assert.GreaterOrEqual(t, cur.Actual, prev.Actual)
		assert.GreaterOrEqual(t, cur.Available, prev.Available)
	}

	last := records[len(records)-1].Cumulative
	assert.InDelta(t, sumPlanned(records), last.Planned, 1e-9)
}

func TestAccumulate_PercentageFromCumulativeRatio(t *testing.T) {
	// GIVEN: Period 1 at 50% and period 2 at 100% of equal capacity
	// WHEN: Accumulating
	// THEN: Cumulative percentage is 75%, not the sum of 150%

	records := []Record{
		{Totals: Totals{TotalCapacity: 50, Planned: 25}, Projects: []ProjectDetail{{ProjectID: 1, PlannedHours: 25}}},
		{Totals: Totals{TotalCapacity: 50, Planned: 50}, Projects: []ProjectDetail{{ProjectID: 1, PlannedHours: 50}}},
	}
	Accumulate(records)

	assert.InDelta(t, 50.0, records[0].Cumulative.PlannedPercentage, 1e-9)
	assert.InDelta(t, 75.0, records[1].Cumulative.PlannedPercentage, 1e-9)
	assert.InDelta(t, 75.0, records[1].Projects[0].Cumulative.PlannedHours, 1e-9)
	assert.InDelta(t, 75.0, records[1].Projects[0].Cumulative.PlannedPercentage, 1e-9)
}

func TestAccumulate_PerProjectRunningSets(t *testing.T) {
	// GIVEN: Project 2 appears only in the second and third periods
	// WHEN: Accumulating
	// THEN: Each project keeps its own running totals

	rate := decimal.NewFromInt(10)
	records := []Record{
		{Totals: Totals{TotalCapacity: 40}, Projects: []ProjectDetail{{ProjectID: 1, PlannedHours: 10, CostPlanned: Cost(10, rate)}}},
		{Totals: Totals{TotalCapacity: 40}, Projects: []ProjectDetail{
			{ProjectID: 1, PlannedHours: 5, CostPlanned: Cost(5, rate)},
			{ProjectID: 2, PlannedHours: 20, CostPlanned: Cost(20, rate)},
		}},
		{Totals: Totals{TotalCapacity: 40}, Projects: []ProjectDetail{{ProjectID: 2, PlannedHours: 4, CostPlanned: Cost(4, rate)}}},
	}
	Accumulate(records)

	assert.InDelta(t, 15.0, records[1].Projects[0].Cumulative.PlannedHours, 1e-9)
	assert.InDelta(t, 20.0, records[1].Projects[1].Cumulative.PlannedHours, 1e-9)
	assert.InDelta(t, 24.0, records[2].Projects[0].Cumulative.PlannedHours, 1e-9)
	assert.Equal(t, "240", records[2].Projects[0].Cumulative.CostPlanned.String())
	assert.InDelta(t, 20.0, records[2].Projects[0].Cumulative.PlannedPercentage, 1e-9) // 24 / 120
}

func TestKeyed_IndependentPerKey(t *testing.T) {
	k := NewKeyed[string]()
	k.Add("a", Totals{Planned: 1})
	k.Add("b", Totals{Planned: 10})
	got := k.Add("a", Totals{Planned: 2})
	assert.InDelta(t, 3.0, got.Planned, 1e-9)
}
