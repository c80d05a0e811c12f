package rollup_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
	"github.com/warp/capacity-engine/rollup"
)

func TestProjectSummaries_PlannedSkipsTimeOff(t *testing.T) {
	// GIVEN: Ada at 50% on Apollo for Q1, Brian at 10 h/week for January with a week off
	// WHEN: Summarizing Apollo
	// THEN: Planned hours follow each allocation's own working days minus time-off

	f := newFixture(t)
	summaries, err := rollup.NewComposer(f.mem, 4).ProjectSummaries(context.Background(), []generic.ProjectID{f.apollo.ID})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "Apollo", s.ProjectName)
	require.Len(t, s.Assignments, 2)

	ada := s.Assignments[0]
	assert.Equal(t, f.ada.ID, ada.Resource.ID)
	assert.InDelta(t, 320.0, ada.PlannedHours, 1e-9) // 64 days * 5 h
	assert.InDelta(t, 8.0, ada.ActualHours, 1e-9)
	assertDecimal(t, "32000", ada.PlannedCost)
	assertDecimal(t, "800", ada.ActualCost)
	assert.Len(t, ada.Allocations, 1)

	brian := s.Assignments[1]
	assert.InDelta(t, 36.0, brian.PlannedHours, 1e-9) // 18 days * 2 h
	assert.InDelta(t, 4.0, brian.ActualHours, 1e-9)
	assertDecimal(t, "1800", brian.PlannedCost)
	assertDecimal(t, "200", brian.ActualCost)

	assert.InDelta(t, 356.0, s.PlannedHours, 1e-9)
	assert.InDelta(t, 12.0, s.ActualHours, 1e-9)
	assertDecimal(t, "33800", s.PlannedCost)
	assertDecimal(t, "1000", s.ActualCost)
}

func TestProjectSummaries_UnknownProjectIsEmpty(t *testing.T) {
	f := newFixture(t)
	summaries, err := rollup.NewComposer(f.mem, 4).ProjectSummaries(context.Background(), []generic.ProjectID{99, f.gemini.ID})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Sorted by project id
	assert.Equal(t, f.gemini.ID, summaries[0].ProjectID)
	assert.Len(t, summaries[0].Assignments, 2)

	assert.Equal(t, generic.ProjectID(99), summaries[1].ProjectID)
	assert.Equal(t, capacity.UnknownProjectName, summaries[1].ProjectName)
	assert.Empty(t, summaries[1].Assignments)
	assert.Zero(t, summaries[1].PlannedHours)
}

func TestProjectSummaries_RequiresIDs(t *testing.T) {
	f := newFixture(t)
	_, err := rollup.NewComposer(f.mem, 4).ProjectSummaries(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, generic.IsClientError(err))
}

func TestRoleSummaries_GroupsByRole(t *testing.T) {
	// GIVEN: Gemini staffed by two engineers
	// WHEN: Grouping Apollo and Gemini by role
	// THEN: Apollo has a Designer and an Engineer, Gemini a single Engineer group

	f := newFixture(t)
	projects, err := rollup.NewComposer(f.mem, 4).RoleSummaries(context.Background(), []generic.ProjectID{f.apollo.ID, f.gemini.ID})
	require.NoError(t, err)
	require.Len(t, projects, 2)

	apollo := projects[0]
	require.Len(t, apollo.Roles, 2)
	assert.Equal(t, "Designer", apollo.Roles[0].Role)
	assert.Equal(t, "Engineer", apollo.Roles[1].Role)
	assert.InDelta(t, 36.0, apollo.Roles[0].PlannedHours, 1e-9)
	assert.InDelta(t, 356.0, apollo.PlannedHours, 1e-9)

	gemini := projects[1]
	require.Len(t, gemini.Roles, 1)
	assert.Len(t, gemini.Roles[0].Assignments, 2)
	// Ada 64 days * 2 h, Cleo 23 days * 10 h
	assert.InDelta(t, 358.0, gemini.Roles[0].PlannedHours, 1e-9)
}
