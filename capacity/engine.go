/*
engine.go - Single-resource capacity pipeline

PURPOSE:
  Loads one resource's rows and runs daily series -> partition ->
  (compress) -> accumulate. Load is the only step that touches I/O.

QUERY MODES:
  Interval Weekly/Monthly:  one record per window
  Interval None:            blocks (MatchTotalsAndProjects), or
                            MatchTotals for capacity-only queries
  Daily:                    one record per working day, not compressed;
                            used by rollup to merge resources first
  ProjectID:                restrict allocations and actuals to one project;
                            capacity is unaffected
  CapacityOnly:             ignore allocations and actuals entirely

ERRORS:
  Range and interval errors are returned before any fetch. An unknown
  resource surfaces as ResourceNotFoundError. Any other fetch failure is
  an UpstreamFetchError naming the resource and the data set.

SEE ALSO:
  - daily.go, partition.go, block.go, cumulative.go: Pipeline stages
  - rollup/composer.go: Runs this engine across many resources
*/
package capacity

import (
	"context"
	"errors"

	"github.com/warp/capacity-engine/generic"
)

// Query describes one single-resource computation.
type Query struct {
	ResourceID   generic.ResourceID
	Period       generic.Period
	Interval     Interval
	ProjectID    generic.ProjectID // 0 = every project
	CapacityOnly bool
	Daily        bool
}

// Validate checks the query before anything is fetched.
func (q Query) Validate() error {
	if q.ResourceID <= 0 {
		return &generic.FieldError{Field: "resource_id", Message: "is required"}
	}
	if err := q.Period.Validate(); err != nil {
		return err
	}
	if _, err := ParseInterval(string(q.Interval)); err != nil {
		return err
	}
	return nil
}

// Result is a computed series for one resource.
type Result struct {
	Resource generic.Resource
	Query    Query
	Records  []Record
}

// Engine runs the pipeline against a data source.
type Engine struct {
	source generic.Source
}

func NewEngine(source generic.Source) *Engine {
	return &Engine{source: source}
}

// Compute validates, loads and runs one query.
func (e *Engine) Compute(ctx context.Context, q Query) (*Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	in, err := e.Load(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Result{Resource: in.Resource, Query: q, Records: Run(in, q)}, nil
}

// Load fetches the resource's rows for the query period.
func (e *Engine) Load(ctx context.Context, q Query) (Input, error) {
	res, err := e.source.GetResource(ctx, q.ResourceID)
	if err != nil {
		if errors.Is(err, generic.ErrResourceNotFound) {
			return Input{}, err
		}
		return Input{}, &generic.UpstreamFetchError{ResourceID: q.ResourceID, Op: "resource", Err: err}
	}
	in := Input{Resource: *res}

	in.TimeOff, err = e.source.TimeOffForResource(ctx, q.ResourceID, q.Period)
	if err != nil {
		return Input{}, &generic.UpstreamFetchError{ResourceID: q.ResourceID, Op: "timeoff", Err: err}
	}
	if q.CapacityOnly {
		return in, nil
	}

	allocations, err := e.source.AllocationsForResource(ctx, q.ResourceID, q.Period)
	if err != nil {
		return Input{}, &generic.UpstreamFetchError{ResourceID: q.ResourceID, Op: "allocations", Err: err}
	}
	actuals, err := e.source.ActualsForResource(ctx, q.ResourceID, q.Period)
	if err != nil {
		return Input{}, &generic.UpstreamFetchError{ResourceID: q.ResourceID, Op: "actuals", Err: err}
	}
	in.Allocations = filterAllocations(allocations, q.ProjectID)
	in.Actuals = filterActuals(actuals, q.ProjectID)

	in.ProjectNames, err = e.source.ProjectNames(ctx, projectIDs(in.Allocations, in.Actuals))
	if err != nil {
		return Input{}, &generic.UpstreamFetchError{ResourceID: q.ResourceID, Op: "project names", Err: err}
	}
	return in, nil
}

// Run is the pure part of the pipeline.
func Run(in Input, q Query) []Record {
	if q.ProjectID != 0 && len(in.Allocations) == 0 {
		return []Record{}
	}

	series := BuildSeries(in, q.Period)
	records := Partition(series, Windows(q.Period, q.Interval), in)
	if q.Interval == IntervalNone && !q.Daily {
		mode := MatchTotalsAndProjects
		if q.CapacityOnly {
			mode = MatchTotals
		}
		records = Compress(records, mode)
	}
	Accumulate(records)
	return records
}

func filterAllocations(allocs []generic.Allocation, project generic.ProjectID) []generic.Allocation {
	if project == 0 {
		return allocs
	}
	out := make([]generic.Allocation, 0, len(allocs))
	for _, a := range allocs {
		if a.ProjectID == project {
			out = append(out, a)
		}
	}
	return out
}

func filterActuals(rows []generic.TimesheetActual, project generic.ProjectID) []generic.TimesheetActual {
	if project == 0 {
		return rows
	}
	out := make([]generic.TimesheetActual, 0, len(rows))
	for _, r := range rows {
		if r.ProjectID == project {
			out = append(out, r)
		}
	}
	return out
}

func projectIDs(allocs []generic.Allocation, rows []generic.TimesheetActual) []generic.ProjectID {
	seen := make(map[generic.ProjectID]bool)
	var ids []generic.ProjectID
	add := func(id generic.ProjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, a := range allocs {
		add(a.ProjectID)
	}
	for _, r := range rows {
		add(r.ProjectID)
	}
	return ids
}
