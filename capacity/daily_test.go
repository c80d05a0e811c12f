package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/capacity-engine/generic"
)

func TestDailySeries_CapacitySumsToDailyTimesWorkdays(t *testing.T) {
	// GIVEN: A 2610 h/year resource and no time-off
	// WHEN: Building the daily series for January 2025
	// THEN: Total capacity is 10 h times the 23 working days

	in := Input{Resource: tenHourResource()}
	period := span("2025-01-01", "2025-01-31")

	series := BuildSeries(in, period)
	require.Len(t, series, 23)

	total := 0.0
	for _, rec := range series {
		assert.True(t, rec.Date.IsWorkday(), "weekend %s in series", rec.Date)
		total += rec.TotalCapacity
	}
	assert.InDelta(t, in.Resource.DailyCapacity()*float64(period.WorkdayCount()), total, 1e-9)
	assert.InDelta(t, 230.0, total, 1e-9)
}

func TestDailySeries_TimeOffOverridesAllocationAndActuals(t *testing.T) {
	// GIVEN: A day covered by time-off that also has a plan and timesheet hours
	// WHEN: Building that day
	// THEN: Capacity, planned, actual and available are all zero

	in := Input{
		Resource:    tenHourResource(),
		Allocations: []generic.Allocation{pctAlloc(7, "2025-01-06", "2025-01-10", 50)},
		Actuals:     []generic.TimesheetActual{actual(7, "2025-01-08", 6)},
		TimeOff:     []generic.TimeOff{timeOff("2025-01-08", "2025-01-08")},
	}

	series := BuildSeries(in, span("2025-01-06", "2025-01-10"))
	require.Len(t, series, 5)

	off := series[2]
	assert.Equal(t, day("2025-01-08"), off.Date)
	assert.True(t, off.TimeOff)
	assert.Zero(t, off.TotalCapacity)
	assert.Zero(t, off.PlannedHours())
	assert.Zero(t, off.ActualHours())
	assert.Zero(t, off.Available())

	// Neighbouring days are untouched
	assert.InDelta(t, 5.0, series[1].PlannedHours(), 1e-9)
	assert.InDelta(t, 10.0, series[3].TotalCapacity, 1e-9)
}

func TestDailySeries_TimeOffRangeStartingBeforeQuery(t *testing.T) {
	// GIVEN: Time-off from the previous December into January
	// WHEN: Querying January only
	// THEN: The covered January days are masked, later days are not

	in := Input{
		Resource: tenHourResource(),
		TimeOff:  []generic.TimeOff{timeOff("2024-12-23", "2025-01-03")},
	}
	series := BuildSeries(in, span("2025-01-01", "2025-01-07"))
	require.Len(t, series, 5) // Wed, Thu, Fri, Mon, Tue

	assert.Zero(t, series[0].TotalCapacity)
	assert.Zero(t, series[2].TotalCapacity)
	assert.InDelta(t, 10.0, series[3].TotalCapacity, 1e-9)
}

func TestDistributor_HoursPerWeekTakesPrecedence(t *testing.T) {
	// GIVEN: An allocation carrying both hrs_per_week and a percentage
	// WHEN: Distributing it onto a working day
	// THEN: hrs_per_week / 5 is used and the percentage is ignored

	a := pctAlloc(3, "2025-01-06", "2025-01-10", 90)
	a.HrsPerWeek = generic.Float(20)

	planned := NewDistributor(10, []generic.Allocation{a}).PlannedFor(day("2025-01-07"))
	assert.InDelta(t, 4.0, planned[3], 1e-9)
}

func TestDistributor_HoursPerWeekIndependentOfCapacity(t *testing.T) {
	// GIVEN: A 30 h/week allocation on a resource with 4 h daily capacity
	// WHEN: Distributing
	// THEN: Each day still gets 6 h

	planned := NewDistributor(4, []generic.Allocation{hoursAlloc(3, "2025-01-06", "2025-01-10", 30)}).PlannedFor(day("2025-01-09"))
	assert.InDelta(t, 6.0, planned[3], 1e-9)
}

func TestDistributor_OverAllocationIsPreserved(t *testing.T) {
	// GIVEN: Two allocations to one project and one to another, 200% in total
	// WHEN: Distributing the day
	// THEN: Same-project allocations sum and nothing is capped

	allocs := []generic.Allocation{
		pctAlloc(1, "2025-01-01", "2025-12-31", 80),
		pctAlloc(1, "2025-01-01", "2025-01-31", 70),
		pctAlloc(2, "2025-01-01", "2025-12-31", 50),
	}
	planned := NewDistributor(10, allocs).PlannedFor(day("2025-01-15"))

	assert.InDelta(t, 15.0, planned[1], 1e-9)
	assert.InDelta(t, 5.0, planned[2], 1e-9)
}

func TestDistributor_OnlyAllocationRangeCounts(t *testing.T) {
	// GIVEN: An allocation ending on Wednesday
	// WHEN: Distributing Thursday
	// THEN: No planned hours

	planned := NewDistributor(10, []generic.Allocation{pctAlloc(1, "2025-01-06", "2025-01-08", 100)}).PlannedFor(day("2025-01-09"))
	assert.Empty(t, planned)
}

func TestUsedHours_ActualSupersedesPlanned(t *testing.T) {
	// GIVEN: A project with 5 h planned and 3 h actual on the same day
	// WHEN: Computing used hours
	// THEN: Used is the actual value, not planned + actual

	in := Input{
		Resource:    tenHourResource(),
		Allocations: []generic.Allocation{pctAlloc(1, "2025-01-06", "2025-01-10", 50)},
		Actuals:     []generic.TimesheetActual{actual(1, "2025-01-06", 3)},
	}
	rec := BuildSeries(in, span("2025-01-06", "2025-01-06"))[0]

	assert.InDelta(t, 5.0, rec.PlannedHours(), 1e-9)
	assert.InDelta(t, 3.0, rec.ActualHours(), 1e-9)
	assert.InDelta(t, 3.0, rec.UsedHours(), 1e-9)
	assert.InDelta(t, 7.0, rec.Available(), 1e-9)
}

func TestUsedHours_PerProjectSubstitution(t *testing.T) {
	// GIVEN: Project 1 has actuals, project 2 only a plan
	// WHEN: Computing used hours
	// THEN: Project 1 contributes its actual, project 2 its plan

	in := Input{
		Resource: tenHourResource(),
		Allocations: []generic.Allocation{
			pctAlloc(1, "2025-01-06", "2025-01-10", 50),
			pctAlloc(2, "2025-01-06", "2025-01-10", 30),
		},
		Actuals: []generic.TimesheetActual{actual(1, "2025-01-06", 2)},
	}
	rec := BuildSeries(in, span("2025-01-06", "2025-01-06"))[0]

	assert.InDelta(t, 5.0, rec.UsedHours(), 1e-9) // 2 actual + 3 planned
	assert.Equal(t, []generic.ProjectID{1, 2}, rec.ProjectIDs())
}

func TestUsedHours_UnplannedActualsCount(t *testing.T) {
	// GIVEN: Timesheet hours on a project with no allocation
	// WHEN: Building the day
	// THEN: The hours are used and reduce availability

	in := Input{
		Resource: tenHourResource(),
		Actuals:  []generic.TimesheetActual{actual(9, "2025-01-06", 4), actual(9, "2025-01-06", 1)},
	}
	rec := BuildSeries(in, span("2025-01-06", "2025-01-06"))[0]

	assert.InDelta(t, 5.0, rec.ActualHours(), 1e-9)
	assert.InDelta(t, 5.0, rec.Available(), 1e-9)
}
