/*
store.go - Data-access interfaces consumed by the capacity engine

PURPOSE:
  Defines the boundary between computation and persistence. The engine
  reads through Source; CRUD handlers and scenario loaders write through
  Store. A handle is injected into every component that needs it; there
  is no package-level connection or pool.

READ CONTRACTS:
  All range queries are inclusive and return rows that OVERLAP the
  requested period. Clipping to the query range is the engine's job.
  Actuals arrive pre-summed per (resource, project, day).

NOT FOUND:
  GetResource / GetProject return ResourceNotFoundError / ErrProjectNotFound
  wrapped errors. List methods return empty slices, never nil errors for
  "nothing matched".

IMPLEMENTATIONS:
  - store/sqldb/sqldb.go: SQLite and PostgreSQL through database/sql
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - types.go: Record definitions
  - capacity/engine.go: Loads one resource's inputs through Source
*/
package generic

import "context"

// =============================================================================
// READ SIDE
// =============================================================================

// ResourceReader looks up resources.
type ResourceReader interface {
	GetResource(ctx context.Context, id ResourceID) (*Resource, error)
	ListResources(ctx context.Context, filter ResourceFilter) ([]Resource, error)
	StrategicPortfolios(ctx context.Context) ([]string, error)
	ProductLines(ctx context.Context, portfolio string) ([]string, error)
}

// ProjectReader looks up projects.
type ProjectReader interface {
	GetProject(ctx context.Context, id ProjectID) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	// ProjectNames maps ids to names. Unknown ids are absent from the map.
	ProjectNames(ctx context.Context, ids []ProjectID) (map[ProjectID]string, error)
}

// AllocationReader loads allocation records.
type AllocationReader interface {
	// AllocationsForResource returns allocations overlapping the period.
	AllocationsForResource(ctx context.Context, id ResourceID, period Period) ([]Allocation, error)
	// AllocationsForProjects returns every allocation of the given projects.
	AllocationsForProjects(ctx context.Context, ids []ProjectID) ([]Allocation, error)
}

// TimeOffReader loads time-off ranges.
type TimeOffReader interface {
	// TimeOffForResource returns ranges overlapping the period.
	TimeOffForResource(ctx context.Context, id ResourceID, period Period) ([]TimeOff, error)
}

// ActualsReader loads timesheet actuals, summed per resource/project/day.
type ActualsReader interface {
	ActualsForResource(ctx context.Context, id ResourceID, period Period) ([]TimesheetActual, error)
	ActualsForProjects(ctx context.Context, ids []ProjectID) ([]TimesheetActual, error)
}

// Source is everything the engine reads.
type Source interface {
	ResourceReader
	ProjectReader
	AllocationReader
	TimeOffReader
	ActualsReader
}

// =============================================================================
// WRITE SIDE
// =============================================================================

// Writer persists records. Save methods assign ids when the record has none
// and return the stored record.
type Writer interface {
	SaveResource(ctx context.Context, r Resource) (Resource, error)
	SaveProject(ctx context.Context, p Project) (Project, error)
	SaveAllocation(ctx context.Context, a Allocation) (Allocation, error)
	DeleteAllocation(ctx context.Context, id AllocationID) error
	SaveTimeOff(ctx context.Context, t TimeOff) (TimeOff, error)
	SaveTimesheetEntry(ctx context.Context, e TimesheetEntry) (TimesheetEntry, error)
}

// Store is the full read/write handle.
type Store interface {
	Source
	Writer
}

// Resetter is implemented by stores that can wipe their data, which the demo
// scenario loader requires.
type Resetter interface {
	Reset(ctx context.Context) error
}
