package rollup

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// ALLOCATION SUMMARIES
// =============================================================================

// Figures are plan-versus-actual totals in hours and money.
type Figures struct {
	PlannedHours float64
	ActualHours  float64
	PlannedCost  decimal.Decimal
	ActualCost   decimal.Decimal
}

func (f Figures) Add(o Figures) Figures {
	return Figures{
		PlannedHours: f.PlannedHours + o.PlannedHours,
		ActualHours:  f.ActualHours + o.ActualHours,
		PlannedCost:  f.PlannedCost.Add(o.PlannedCost),
		ActualCost:   f.ActualCost.Add(o.ActualCost),
	}
}

// Assignment is one resource's work on one project: every allocation of the
// pair plus the pair's timesheet hours.
type Assignment struct {
	Resource    generic.Resource
	ProjectID   generic.ProjectID
	ProjectName string
	Allocations []generic.Allocation
	Figures
}

// ProjectSummary totals a project's assignments.
type ProjectSummary struct {
	ProjectID   generic.ProjectID
	ProjectName string
	Figures
	Assignments []Assignment // by resource id
}

// RoleSummary totals the assignments of one role within a project.
type RoleSummary struct {
	Role string
	Figures
	Assignments []Assignment
}

// ProjectRoles groups a project's assignments by resource role.
type ProjectRoles struct {
	ProjectID   generic.ProjectID
	ProjectName string
	Figures
	Roles []RoleSummary // by role name
}

// ProjectSummaries totals planned and actual effort per project.
//
// Planned hours of an allocation are its daily contribution times its own
// working days, skipping the resource's time-off. Actual hours are every
// timesheet hour the resource logged on the project.
func (c *Composer) ProjectSummaries(ctx context.Context, ids []generic.ProjectID) ([]ProjectSummary, error) {
	assignments, names, err := c.assignments(ctx, ids)
	if err != nil {
		return nil, err
	}

	byProject := make(map[generic.ProjectID]*ProjectSummary)
	for _, a := range assignments {
		s, ok := byProject[a.ProjectID]
		if !ok {
			s = &ProjectSummary{ProjectID: a.ProjectID, ProjectName: a.ProjectName}
			byProject[a.ProjectID] = s
		}
		s.Figures = s.Figures.Add(a.Figures)
		s.Assignments = append(s.Assignments, a)
	}

	out := make([]ProjectSummary, 0, len(ids))
	for _, id := range sortedProjects(ids) {
		if s, ok := byProject[id]; ok {
			out = append(out, *s)
			continue
		}
		out = append(out, ProjectSummary{ProjectID: id, ProjectName: nameOr(names, id), Assignments: []Assignment{}})
	}
	return out, nil
}

// RoleSummaries groups ProjectSummaries by resource role.
func (c *Composer) RoleSummaries(ctx context.Context, ids []generic.ProjectID) ([]ProjectRoles, error) {
	summaries, err := c.ProjectSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectRoles, 0, len(summaries))
	for _, s := range summaries {
		byRole := make(map[string]*RoleSummary)
		for _, a := range s.Assignments {
			role := a.Resource.Role
			r, ok := byRole[role]
			if !ok {
				r = &RoleSummary{Role: role}
				byRole[role] = r
			}
			r.Figures = r.Figures.Add(a.Figures)
			r.Assignments = append(r.Assignments, a)
		}

		roles := make([]RoleSummary, 0, len(byRole))
		for _, r := range byRole {
			roles = append(roles, *r)
		}
		sort.Slice(roles, func(i, j int) bool { return roles[i].Role < roles[j].Role })
		out = append(out, ProjectRoles{ProjectID: s.ProjectID, ProjectName: s.ProjectName, Figures: s.Figures, Roles: roles})
	}
	return out, nil
}

// assignments loads and prices every (resource, project) pair of the projects.
func (c *Composer) assignments(ctx context.Context, ids []generic.ProjectID) ([]Assignment, map[generic.ProjectID]string, error) {
	if len(ids) == 0 {
		return nil, nil, &generic.FieldError{Field: "project_ids", Message: "at least one project id is required"}
	}

	allocations, err := c.source.AllocationsForProjects(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load allocations: %w", err)
	}
	actuals, err := c.source.ActualsForProjects(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load actuals: %w", err)
	}
	names, err := c.source.ProjectNames(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load project names: %w", err)
	}
	roster, err := c.roster(ctx)
	if err != nil {
		return nil, nil, err
	}

	type pairKey struct {
		resource generic.ResourceID
		project  generic.ProjectID
	}
	pairs := make(map[pairKey]*Assignment)
	var order []pairKey
	pair := func(rid generic.ResourceID, pid generic.ProjectID) *Assignment {
		k := pairKey{rid, pid}
		if a, ok := pairs[k]; ok {
			return a
		}
		res, ok := roster[rid]
		if !ok {
			return nil
		}
		a := &Assignment{Resource: res, ProjectID: pid, ProjectName: nameOr(names, pid)}
		pairs[k] = a
		order = append(order, k)
		return a
	}

	byResource := make(map[generic.ResourceID][]generic.Allocation)
	for _, alloc := range allocations {
		byResource[alloc.ResourceID] = append(byResource[alloc.ResourceID], alloc)
	}
	for rid, allocs := range byResource {
		if _, ok := roster[rid]; !ok {
			log.Printf("[Rollup] summary: allocations reference unknown resource %d", rid)
			continue
		}
		mask, err := c.timeOffMask(ctx, rid, allocs)
		if err != nil {
			return nil, nil, err
		}
		for _, alloc := range allocs {
			a := pair(rid, alloc.ProjectID)
			a.Allocations = append(a.Allocations, alloc)
			hours := plannedHours(alloc, a.Resource.DailyCapacity(), mask)
			a.PlannedHours += hours
			a.PlannedCost = a.PlannedCost.Add(capacity.Cost(hours, a.Resource.BlendedRate))
		}
	}
	for _, row := range actuals {
		a := pair(row.ResourceID, row.ProjectID)
		if a == nil {
			continue
		}
		a.ActualHours += row.Hours
		a.ActualCost = a.ActualCost.Add(capacity.Cost(row.Hours, a.Resource.BlendedRate))
	}

	out := make([]Assignment, 0, len(order))
	for _, k := range order {
		out = append(out, *pairs[k])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProjectID != out[j].ProjectID {
			return out[i].ProjectID < out[j].ProjectID
		}
		return out[i].Resource.ID < out[j].Resource.ID
	})
	return out, names, nil
}

func (c *Composer) roster(ctx context.Context) (map[generic.ResourceID]generic.Resource, error) {
	resources, err := c.source.ListResources(ctx, generic.ResourceFilter{})
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	roster := make(map[generic.ResourceID]generic.Resource, len(resources))
	for _, r := range resources {
		roster[r.ID] = r
	}
	return roster, nil
}

// timeOffMask loads the resource's time-off across the span of its allocations.
func (c *Composer) timeOffMask(ctx context.Context, rid generic.ResourceID, allocs []generic.Allocation) (capacity.TimeOffMask, error) {
	span := allocs[0].Period()
	for _, a := range allocs[1:] {
		span.Start = generic.MinDate(span.Start, a.Start)
		span.End = generic.MaxDate(span.End, a.End)
	}
	entries, err := c.source.TimeOffForResource(ctx, rid, span)
	if err != nil {
		return capacity.TimeOffMask{}, fmt.Errorf("load time-off for resource %d: %w", rid, err)
	}
	return capacity.NewTimeOffMask(entries), nil
}

func plannedHours(a generic.Allocation, dailyCapacity float64, mask capacity.TimeOffMask) float64 {
	hours := 0.0
	for _, d := range a.Period().Workdays() {
		if !mask.Unavailable(d) {
			hours += a.DailyHours(dailyCapacity)
		}
	}
	return hours
}

func nameOr(names map[generic.ProjectID]string, id generic.ProjectID) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return capacity.UnknownProjectName
}

func sortedProjects(ids []generic.ProjectID) []generic.ProjectID {
	seen := make(map[generic.ProjectID]bool, len(ids))
	out := make([]generic.ProjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
