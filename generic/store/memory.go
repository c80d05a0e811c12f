// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	resources   map[generic.ResourceID]generic.Resource
	projects    map[generic.ProjectID]generic.Project
	allocations map[generic.AllocationID]generic.Allocation
	timeoff     []generic.TimeOff
	timesheet   []generic.TimesheetEntry

	nextResource   generic.ResourceID
	nextProject    generic.ProjectID
	nextAllocation generic.AllocationID
}

// Compile-time checks.
var (
	_ generic.Store    = (*Memory)(nil)
	_ generic.Resetter = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		resources:   make(map[generic.ResourceID]generic.Resource),
		projects:    make(map[generic.ProjectID]generic.Project),
		allocations: make(map[generic.AllocationID]generic.Allocation),
	}
}

// =============================================================================
// RESOURCES
// =============================================================================

func (m *Memory) SaveResource(_ context.Context, r generic.Resource) (generic.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		m.nextResource++
		r.ID = m.nextResource
	} else if r.ID > m.nextResource {
		m.nextResource = r.ID
	}
	m.resources[r.ID] = r
	return r, nil
}

func (m *Memory) GetResource(_ context.Context, id generic.ResourceID) (*generic.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resources[id]
	if !ok {
		return nil, &generic.ResourceNotFoundError{ResourceID: id}
	}
	return &r, nil
}

func (m *Memory) ListResources(_ context.Context, filter generic.ResourceFilter) ([]generic.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []generic.Resource{}
	for _, r := range m.resources {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) StrategicPortfolios(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	for _, r := range m.resources {
		if r.StrategicPortfolio != "" {
			seen[r.StrategicPortfolio] = true
		}
	}
	return sortedKeys(seen), nil
}

func (m *Memory) ProductLines(_ context.Context, portfolio string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	for _, r := range m.resources {
		if r.StrategicPortfolio == portfolio && r.ProductLine != "" {
			seen[r.ProductLine] = true
		}
	}
	return sortedKeys(seen), nil
}

// =============================================================================
// PROJECTS
// =============================================================================

func (m *Memory) SaveProject(_ context.Context, p generic.Project) (generic.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		m.nextProject++
		p.ID = m.nextProject
	} else if p.ID > m.nextProject {
		m.nextProject = p.ID
	}
	m.projects[p.ID] = p
	return p, nil
}

func (m *Memory) GetProject(_ context.Context, id generic.ProjectID) (*generic.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, generic.ErrProjectNotFound
	}
	return &p, nil
}

func (m *Memory) ListProjects(_ context.Context) ([]generic.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]generic.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ProjectNames(_ context.Context, ids []generic.ProjectID) (map[generic.ProjectID]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make(map[generic.ProjectID]string, len(ids))
	for _, id := range ids {
		if p, ok := m.projects[id]; ok {
			names[id] = p.Name
		}
	}
	return names, nil
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

func (m *Memory) SaveAllocation(_ context.Context, a generic.Allocation) (generic.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known(a.ResourceID, a.ProjectID) {
		return a, unknownReference
	}
	if a.ID == 0 {
		m.nextAllocation++
		a.ID = m.nextAllocation
	} else if a.ID > m.nextAllocation {
		m.nextAllocation = a.ID
	}
	m.allocations[a.ID] = a
	return a, nil
}

func (m *Memory) DeleteAllocation(_ context.Context, id generic.AllocationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allocations[id]; !ok {
		return generic.ErrAllocationNotFound
	}
	delete(m.allocations, id)
	return nil
}

func (m *Memory) AllocationsForResource(_ context.Context, id generic.ResourceID, period generic.Period) ([]generic.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []generic.Allocation{}
	for _, a := range m.allocations {
		if a.ResourceID == id && a.Period().Overlaps(period) {
			out = append(out, a)
		}
	}
	sortAllocations(out)
	return out, nil
}

func (m *Memory) AllocationsForProjects(_ context.Context, ids []generic.ProjectID) ([]generic.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := projectSet(ids)
	out := []generic.Allocation{}
	for _, a := range m.allocations {
		if wanted[a.ProjectID] {
			out = append(out, a)
		}
	}
	sortAllocations(out)
	return out, nil
}

// =============================================================================
// TIME-OFF AND TIMESHEET
// =============================================================================

func (m *Memory) SaveTimeOff(_ context.Context, t generic.TimeOff) (generic.TimeOff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[t.ResourceID]; !ok {
		return t, &generic.FieldError{Field: "resource_id", Message: "references an unknown record"}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.timeoff = append(m.timeoff, t)
	return t, nil
}

func (m *Memory) TimeOffForResource(_ context.Context, id generic.ResourceID, period generic.Period) ([]generic.TimeOff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []generic.TimeOff{}
	for _, t := range m.timeoff {
		if t.ResourceID == id && t.Period().Overlaps(period) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *Memory) SaveTimesheetEntry(_ context.Context, e generic.TimesheetEntry) (generic.TimesheetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known(e.ResourceID, e.ProjectID) {
		return e, unknownReference
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.timesheet = append(m.timesheet, e)
	return e, nil
}

func (m *Memory) ActualsForResource(_ context.Context, id generic.ResourceID, period generic.Period) ([]generic.TimesheetActual, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sumActuals(func(e generic.TimesheetEntry) bool {
		return e.ResourceID == id && period.Contains(e.Date)
	}), nil
}

func (m *Memory) ActualsForProjects(_ context.Context, ids []generic.ProjectID) ([]generic.TimesheetActual, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := projectSet(ids)
	return m.sumActuals(func(e generic.TimesheetEntry) bool {
		return wanted[e.ProjectID]
	}), nil
}

// sumActuals groups matching entries by (resource, project, day). Caller holds the lock.
func (m *Memory) sumActuals(match func(generic.TimesheetEntry) bool) []generic.TimesheetActual {
	type key struct {
		resource generic.ResourceID
		project  generic.ProjectID
		day      generic.Date
	}
	sums := make(map[key]float64)
	for _, e := range m.timesheet {
		if match(e) {
			sums[key{e.ResourceID, e.ProjectID, e.Date}] += e.Hours
		}
	}
	out := make([]generic.TimesheetActual, 0, len(sums))
	for k, hours := range sums {
		out = append(out, generic.TimesheetActual{ResourceID: k.resource, ProjectID: k.project, Date: k.day, Hours: hours})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].ResourceID != out[j].ResourceID {
			return out[i].ResourceID < out[j].ResourceID
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}

// Reset clears all data (for testing/demo).
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = make(map[generic.ResourceID]generic.Resource)
	m.projects = make(map[generic.ProjectID]generic.Project)
	m.allocations = make(map[generic.AllocationID]generic.Allocation)
	m.timeoff = nil
	m.timesheet = nil
	m.nextResource, m.nextProject, m.nextAllocation = 0, 0, 0
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

var unknownReference = &generic.FieldError{Field: "resource_id/project_id", Message: "references an unknown record"}

// known reports whether both referenced records exist. Caller holds the lock.
func (m *Memory) known(rid generic.ResourceID, pid generic.ProjectID) bool {
	_, okR := m.resources[rid]
	_, okP := m.projects[pid]
	return okR && okP
}

func projectSet(ids []generic.ProjectID) map[generic.ProjectID]bool {
	set := make(map[generic.ProjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func sortAllocations(allocs []generic.Allocation) {
	sort.Slice(allocs, func(i, j int) bool { return allocs[i].ID < allocs[j].ID })
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
