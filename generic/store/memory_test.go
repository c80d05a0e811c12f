package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/capacity-engine/generic"
)

func day(s string) generic.Date { return generic.MustParseDate(s) }

// seeded returns a store with two resources, one project and nothing else.
func seeded(t *testing.T) (*Memory, generic.Resource, generic.Resource, generic.Project) {
	t.Helper()
	ctx := context.Background()
	m := NewMemory()

	ada, err := m.SaveResource(ctx, generic.Resource{Name: "Ada", StrategicPortfolio: "Digital", ProductLine: "Web", YearlyCapacity: 2088})
	require.NoError(t, err)
	bob, err := m.SaveResource(ctx, generic.Resource{Name: "Bob", StrategicPortfolio: "Digital", ProductLine: "Mobile", YearlyCapacity: 2088})
	require.NoError(t, err)
	apollo, err := m.SaveProject(ctx, generic.Project{Name: "Apollo"})
	require.NoError(t, err)
	return m, ada, bob, apollo
}

func TestMemory_ResourcesRoundTrip(t *testing.T) {
	// GIVEN: Two saved resources
	// WHEN: Reading them back and filtering
	// THEN: IDs are assigned in order and filters apply

	m, ada, bob, _ := seeded(t)
	ctx := context.Background()

	assert.Equal(t, generic.ResourceID(1), ada.ID)
	assert.Equal(t, generic.ResourceID(2), bob.ID)

	got, err := m.GetResource(ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	_, err = m.GetResource(ctx, 42)
	assert.True(t, generic.IsNotFound(err))

	all, err := m.ListResources(ctx, generic.ResourceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mobile, err := m.ListResources(ctx, generic.ResourceFilter{StrategicPortfolio: "Digital", ProductLine: "Mobile"})
	require.NoError(t, err)
	require.Len(t, mobile, 1)
	assert.Equal(t, "Bob", mobile[0].Name)

	portfolios, err := m.StrategicPortfolios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Digital"}, portfolios)

	lines, err := m.ProductLines(ctx, "Digital")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mobile", "Web"}, lines)

	none, err := m.ProductLines(ctx, "Ops")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemory_ExplicitIDsAdvanceSequence(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.SaveProject(ctx, generic.Project{ID: 10, Name: "Imported"})
	require.NoError(t, err)
	next, err := m.SaveProject(ctx, generic.Project{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, generic.ProjectID(11), next.ID)

	names, err := m.ProjectNames(ctx, []generic.ProjectID{10, 11, 99})
	require.NoError(t, err)
	assert.Equal(t, map[generic.ProjectID]string{10: "Imported", 11: "New"}, names)

	_, err = m.GetProject(ctx, 99)
	assert.ErrorIs(t, err, generic.ErrProjectNotFound)
}

func TestMemory_AllocationOverlap(t *testing.T) {
	// GIVEN: Q1 and Q3 allocations for Ada
	// WHEN: Querying windows that touch one, both or neither
	// THEN: Only overlapping allocations are returned

	m, ada, bob, apollo := seeded(t)
	ctx := context.Background()

	q1, err := m.SaveAllocation(ctx, generic.Allocation{ResourceID: ada.ID, ProjectID: apollo.ID, Start: day("2025-01-01"), End: day("2025-03-31"), Pct: generic.Float(50)})
	require.NoError(t, err)
	q3, err := m.SaveAllocation(ctx, generic.Allocation{ResourceID: ada.ID, ProjectID: apollo.ID, Start: day("2025-07-01"), End: day("2025-09-30"), HrsPerWeek: generic.Float(8)})
	require.NoError(t, err)
	_, err = m.SaveAllocation(ctx, generic.Allocation{ResourceID: bob.ID, ProjectID: apollo.ID, Start: day("2025-01-01"), End: day("2025-12-31"), Pct: generic.Float(20)})
	require.NoError(t, err)

	tests := []struct {
		name   string
		period generic.Period
		want   []generic.AllocationID
	}{
		{"first day of q1", generic.Period{Start: day("2024-12-01"), End: day("2025-01-01")}, []generic.AllocationID{q1.ID}},
		{"whole year", generic.YearPeriod(2025), []generic.AllocationID{q1.ID, q3.ID}},
		{"gap between", generic.Period{Start: day("2025-04-01"), End: day("2025-06-30")}, nil},
		{"last day of q3", generic.Period{Start: day("2025-09-30"), End: day("2025-10-15")}, []generic.AllocationID{q3.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocs, err := m.AllocationsForResource(ctx, ada.ID, tt.period)
			require.NoError(t, err)
			var ids []generic.AllocationID
			for _, a := range allocs {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	byProject, err := m.AllocationsForProjects(ctx, []generic.ProjectID{apollo.ID})
	require.NoError(t, err)
	assert.Len(t, byProject, 3)

	none, err := m.AllocationsForProjects(ctx, []generic.ProjectID{99})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemory_UnknownReferences(t *testing.T) {
	m, ada, _, apollo := seeded(t)
	ctx := context.Background()

	_, err := m.SaveAllocation(ctx, generic.Allocation{ResourceID: 99, ProjectID: apollo.ID, Start: day("2025-01-01"), End: day("2025-01-31")})
	assert.True(t, generic.IsClientError(err))

	_, err = m.SaveAllocation(ctx, generic.Allocation{ResourceID: ada.ID, ProjectID: 99, Start: day("2025-01-01"), End: day("2025-01-31")})
	assert.True(t, generic.IsClientError(err))

	_, err = m.SaveTimeOff(ctx, generic.TimeOff{ResourceID: 99, Start: day("2025-01-01"), End: day("2025-01-02")})
	var fieldErr *generic.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "resource_id", fieldErr.Field)

	_, err = m.SaveTimesheetEntry(ctx, generic.TimesheetEntry{ResourceID: ada.ID, ProjectID: 99, Date: day("2025-01-02"), Hours: 4})
	assert.True(t, generic.IsClientError(err))
}

func TestMemory_DeleteAllocation(t *testing.T) {
	m, ada, _, apollo := seeded(t)
	ctx := context.Background()

	a, err := m.SaveAllocation(ctx, generic.Allocation{ResourceID: ada.ID, ProjectID: apollo.ID, Start: day("2025-01-01"), End: day("2025-01-31"), Pct: generic.Float(100)})
	require.NoError(t, err)

	require.NoError(t, m.DeleteAllocation(ctx, a.ID))
	assert.ErrorIs(t, m.DeleteAllocation(ctx, a.ID), generic.ErrAllocationNotFound)

	left, err := m.AllocationsForResource(ctx, ada.ID, generic.YearPeriod(2025))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestMemory_TimeOffOverlap(t *testing.T) {
	m, ada, bob, _ := seeded(t)
	ctx := context.Background()

	later, err := m.SaveTimeOff(ctx, generic.TimeOff{ResourceID: ada.ID, Start: day("2025-08-04"), End: day("2025-08-15"), Reason: "vacation"})
	require.NoError(t, err)
	assert.NotEmpty(t, later.ID)
	_, err = m.SaveTimeOff(ctx, generic.TimeOff{ResourceID: ada.ID, Start: day("2025-03-10"), End: day("2025-03-14")})
	require.NoError(t, err)
	_, err = m.SaveTimeOff(ctx, generic.TimeOff{ResourceID: bob.ID, Start: day("2025-03-10"), End: day("2025-03-14")})
	require.NoError(t, err)

	year, err := m.TimeOffForResource(ctx, ada.ID, generic.YearPeriod(2025))
	require.NoError(t, err)
	require.Len(t, year, 2)
	assert.Equal(t, "2025-03-10", year[0].Start.String())

	march, err := m.TimeOffForResource(ctx, ada.ID, generic.Period{Start: day("2025-03-14"), End: day("2025-03-31")})
	require.NoError(t, err)
	assert.Len(t, march, 1)
}

func TestMemory_ActualsSumPerDay(t *testing.T) {
	// GIVEN: Three timesheet rows, two on the same day and project
	// WHEN: Reading actuals
	// THEN: Same-day rows are summed and results are ordered by date

	m, ada, bob, apollo := seeded(t)
	ctx := context.Background()

	for _, e := range []generic.TimesheetEntry{
		{ResourceID: ada.ID, ProjectID: apollo.ID, Date: day("2025-01-03"), Hours: 2},
		{ResourceID: ada.ID, ProjectID: apollo.ID, Date: day("2025-01-02"), Hours: 3},
		{ResourceID: ada.ID, ProjectID: apollo.ID, Date: day("2025-01-02"), Hours: 1.5},
		{ResourceID: bob.ID, ProjectID: apollo.ID, Date: day("2025-01-02"), Hours: 8},
	} {
		_, err := m.SaveTimesheetEntry(ctx, e)
		require.NoError(t, err)
	}

	actuals, err := m.ActualsForResource(ctx, ada.ID, generic.Period{Start: day("2025-01-01"), End: day("2025-01-31")})
	require.NoError(t, err)
	require.Len(t, actuals, 2)
	assert.Equal(t, "2025-01-02", actuals[0].Date.String())
	assert.InDelta(t, 4.5, actuals[0].Hours, 1e-9)
	assert.InDelta(t, 2.0, actuals[1].Hours, 1e-9)

	outside, err := m.ActualsForResource(ctx, ada.ID, generic.Period{Start: day("2025-02-01"), End: day("2025-02-28")})
	require.NoError(t, err)
	assert.Empty(t, outside)

	byProject, err := m.ActualsForProjects(ctx, []generic.ProjectID{apollo.ID})
	require.NoError(t, err)
	require.Len(t, byProject, 3)
	assert.Equal(t, ada.ID, byProject[0].ResourceID)
	assert.Equal(t, bob.ID, byProject[1].ResourceID)
}

func TestMemory_Reset(t *testing.T) {
	m, ada, _, apollo := seeded(t)
	ctx := context.Background()

	_, err := m.SaveAllocation(ctx, generic.Allocation{ResourceID: ada.ID, ProjectID: apollo.ID, Start: day("2025-01-01"), End: day("2025-01-31"), Pct: generic.Float(10)})
	require.NoError(t, err)

	require.NoError(t, m.Reset(ctx))

	resources, err := m.ListResources(ctx, generic.ResourceFilter{})
	require.NoError(t, err)
	assert.Empty(t, resources)

	fresh, err := m.SaveResource(ctx, generic.Resource{Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, generic.ResourceID(1), fresh.ID)
}
