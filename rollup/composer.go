/*
Package rollup composes single-resource capacity series into project and
portfolio views.

PURPOSE:
  The capacity package answers "how loaded is this person". This package
  answers the same question for a project (everyone allocated to it) and
  for a portfolio or product line (everyone tagged with it).

HOW IT WORKS:
  1. Resolve the resource ids in scope (primary fetch, failures are fatal)
  2. FanOut: a fixed pool of workers runs the capacity pipeline per resource
  3. Drop failed resources (logged, counted in metrics)
  4. Merge records by period start date; each period keeps per-resource figures
  5. Blocks only: compress the merged day series (MatchTotals)
  6. Accumulate: one aggregate running set plus one per resource

BLOCK MODE:
  Resources are computed day by day and compressed after merging, so the
  composed blocks never overlap even when resources change state on
  different days.

PROJECT VIEW FIGURES:
  Capacity and available come from each resource's whole day (all projects).
  Planned, actual and costs count only the target project.

SEE ALSO:
  - pool.go: Bounded fan-out with per-resource error isolation
  - summary.go: Allocation and role summaries
  - capacity/engine.go: The per-resource pipeline
*/
package rollup

import (
	"context"
	"fmt"
	"sort"

	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// VIEW TYPES
// =============================================================================

// ResourceFigures is one resource's share of a period (or of the whole range).
type ResourceFigures struct {
	Resource generic.Resource
	capacity.Totals
	Projects   []capacity.ProjectDetail
	Cumulative *capacity.Cumulative
}

// PeriodSummary is one period of a composed view.
type PeriodSummary struct {
	generic.Period
	WorkingDays int
	capacity.Totals
	Cumulative *capacity.Cumulative
	Resources  []ResourceFigures // sorted by resource id
}

// View is the common shape of the project and portfolio views.
type View struct {
	Period          generic.Period
	Interval        capacity.Interval
	Periods         []PeriodSummary
	ResourceSummary []ResourceFigures // totals across the whole range, by resource id
	Totals          capacity.Totals
	Skipped         []generic.ResourceID
}

type ProjectView struct {
	Project generic.Project
	View
}

type PortfolioView struct {
	Filter generic.ResourceFilter
	View
}

// =============================================================================
// COMPOSER
// =============================================================================

// Composer fans the capacity engine out across resources.
type Composer struct {
	source  generic.Source
	engine  *capacity.Engine
	workers int
}

func NewComposer(source generic.Source, workers int) *Composer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Composer{source: source, engine: capacity.NewEngine(source), workers: workers}
}

// ProjectView rolls up every resource allocated to the project during the
// period. A nil period falls back to the project's estimated dates.
func (c *Composer) ProjectView(ctx context.Context, id generic.ProjectID, period *generic.Period, iv capacity.Interval) (*ProjectView, error) {
	project, err := c.source.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load project %d: %w", id, err)
	}

	p, err := resolvePeriod(project, period)
	if err != nil {
		return nil, err
	}
	if _, err := capacity.ParseInterval(string(iv)); err != nil {
		return nil, err
	}

	allocations, err := c.source.AllocationsForProjects(ctx, []generic.ProjectID{id})
	if err != nil {
		return nil, fmt.Errorf("load allocations for project %d: %w", id, err)
	}
	ids := allocatedResources(allocations, p)

	results, skipped := Succeeded("project", FanOut(ctx, ids, c.workers, c.task(p, iv)))
	view := compose(results, p, iv, onlyProject(id))
	view.Skipped = skipped
	return &ProjectView{Project: *project, View: view}, nil
}

// PortfolioView rolls up every resource matching the filter.
func (c *Composer) PortfolioView(ctx context.Context, filter generic.ResourceFilter, period generic.Period, iv capacity.Interval) (*PortfolioView, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if _, err := capacity.ParseInterval(string(iv)); err != nil {
		return nil, err
	}

	resources, err := c.source.ListResources(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	if len(resources) == 0 {
		return nil, fmt.Errorf("%w: no resources for strategic_portfolio=%q product_line=%q",
			generic.ErrResourceNotFound, filter.StrategicPortfolio, filter.ProductLine)
	}
	ids := make([]generic.ResourceID, len(resources))
	for i, r := range resources {
		ids[i] = r.ID
	}

	results, skipped := Succeeded("portfolio", FanOut(ctx, ids, c.workers, c.task(period, iv)))
	view := compose(results, period, iv, allProjects)
	view.Skipped = skipped
	return &PortfolioView{Filter: filter, View: view}, nil
}

func (c *Composer) task(period generic.Period, iv capacity.Interval) Task {
	return func(ctx context.Context, id generic.ResourceID) (*capacity.Result, error) {
		return c.engine.Compute(ctx, capacity.Query{
			ResourceID: id,
			Period:     period,
			Interval:   iv,
			Daily:      iv == capacity.IntervalNone,
		})
	}
}

// =============================================================================
// MERGE
// =============================================================================

// picker extracts a resource's figures from one of its records.
type picker func(res generic.Resource, rec capacity.Record) ResourceFigures

func allProjects(res generic.Resource, rec capacity.Record) ResourceFigures {
	return ResourceFigures{
		Resource: res,
		Totals:   rec.Totals,
		Projects: stripCumulative(rec.Projects),
	}
}

func onlyProject(id generic.ProjectID) picker {
	return func(res generic.Resource, rec capacity.Record) ResourceFigures {
		fig := ResourceFigures{
			Resource: res,
			Totals:   capacity.Totals{TotalCapacity: rec.TotalCapacity, Available: rec.Available},
		}
		if p, ok := rec.Project(id); ok {
			fig.Planned = p.PlannedHours
			fig.Actual = p.ActualHours
			fig.CostPlanned = p.CostPlanned
			fig.CostActual = p.CostActual
			fig.Projects = stripCumulative([]capacity.ProjectDetail{p})
		}
		return fig
	}
}

func compose(results []*capacity.Result, period generic.Period, iv capacity.Interval, pick picker) View {
	periods := mergeByStart(results, pick)
	if iv == capacity.IntervalNone {
		periods = capacity.CompressBy(periods, func(a, b PeriodSummary) bool {
			return a.Totals.Matches(b.Totals)
		}, mergeSummaries)
	}
	accumulate(periods)

	view := View{Period: period, Interval: iv, Periods: periods, ResourceSummary: summarize(periods)}
	for _, p := range periods {
		view.Totals = view.Totals.Add(p.Totals)
	}
	return view
}

func mergeByStart(results []*capacity.Result, pick picker) []PeriodSummary {
	byStart := make(map[generic.Date]*PeriodSummary)
	for _, r := range results {
		for _, rec := range r.Records {
			row, ok := byStart[rec.Start]
			if !ok {
				row = &PeriodSummary{Period: rec.Period, WorkingDays: rec.WorkingDays}
				byStart[rec.Start] = row
			}
			fig := pick(r.Resource, rec)
			row.Totals = row.Totals.Add(fig.Totals)
			row.Resources = append(row.Resources, fig)
		}
	}

	periods := make([]PeriodSummary, 0, len(byStart))
	for _, row := range byStart {
		sortFigures(row.Resources)
		periods = append(periods, *row)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Start.Before(periods[j].Start) })
	return periods
}

func mergeSummaries(a, b PeriodSummary) PeriodSummary {
	return PeriodSummary{
		Period:      generic.Period{Start: a.Start, End: b.End},
		WorkingDays: a.WorkingDays + b.WorkingDays,
		Totals:      a.Totals.Add(b.Totals),
		Resources:   mergeFigures(a.Resources, b.Resources),
	}
}

// mergeFigures sums two per-resource lists by resource id.
func mergeFigures(a, b []ResourceFigures) []ResourceFigures {
	byID := make(map[generic.ResourceID]ResourceFigures, len(a)+len(b))
	for _, list := range [][]ResourceFigures{a, b} {
		for _, f := range list {
			cur, ok := byID[f.Resource.ID]
			if !ok {
				byID[f.Resource.ID] = ResourceFigures{Resource: f.Resource, Totals: f.Totals, Projects: f.Projects}
				continue
			}
			cur.Totals = cur.Totals.Add(f.Totals)
			cur.Projects = capacity.MergeProjects(cur.Projects, f.Projects, cur.TotalCapacity)
			byID[f.Resource.ID] = cur
		}
	}
	out := make([]ResourceFigures, 0, len(byID))
	for _, f := range byID {
		out = append(out, f)
	}
	sortFigures(out)
	return out
}

func accumulate(periods []PeriodSummary) {
	var total capacity.Accumulator
	perResource := capacity.NewKeyed[generic.ResourceID]()
	for i := range periods {
		p := &periods[i]
		cum := total.Add(p.Totals)
		p.Cumulative = &cum
		for j := range p.Resources {
			f := &p.Resources[j]
			rc := perResource.Add(f.Resource.ID, f.Totals)
			f.Cumulative = &rc
		}
	}
}

// summarize totals each resource across every period.
func summarize(periods []PeriodSummary) []ResourceFigures {
	var all []ResourceFigures
	for _, p := range periods {
		all = mergeFigures(all, p.Resources)
	}
	if all == nil {
		return []ResourceFigures{}
	}
	for i := range all {
		all[i].Cumulative = nil
	}
	return all
}

// =============================================================================
// HELPERS
// =============================================================================

func resolvePeriod(project *generic.Project, period *generic.Period) (generic.Period, error) {
	if period != nil {
		return *period, period.Validate()
	}
	p, ok := project.EstimatedPeriod()
	if !ok {
		return generic.Period{}, &generic.FieldError{Field: "start_date", Message: "is required when the project has no estimated dates"}
	}
	return p, p.Validate()
}

// allocatedResources returns distinct resource ids with an allocation
// overlapping the period, ascending.
func allocatedResources(allocations []generic.Allocation, period generic.Period) []generic.ResourceID {
	seen := make(map[generic.ResourceID]bool)
	ids := []generic.ResourceID{}
	for _, a := range allocations {
		if !seen[a.ResourceID] && a.Period().Overlaps(period) {
			seen[a.ResourceID] = true
			ids = append(ids, a.ResourceID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func stripCumulative(details []capacity.ProjectDetail) []capacity.ProjectDetail {
	out := make([]capacity.ProjectDetail, len(details))
	for i, d := range details {
		d.Cumulative = nil
		out[i] = d
	}
	return out
}

func sortFigures(figs []ResourceFigures) {
	sort.Slice(figs, func(i, j int) bool { return figs[i].Resource.ID < figs[j].Resource.ID })
}
