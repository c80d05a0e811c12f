package rollup

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/capacity"
	"github.com/warp/capacity-engine/generic"
)

// ActualsPeriod is one window of a project's timesheet history.
type ActualsPeriod struct {
	generic.Period
	Hours           float64
	Cost            decimal.Decimal
	CumulativeHours float64
	CumulativeCost  decimal.Decimal
}

// ActualsSeries is a project's actual hours and cost per window.
type ActualsSeries struct {
	ProjectID   generic.ProjectID
	ProjectName string
	Periods     []ActualsPeriod
	TotalHours  float64
	TotalCost   decimal.Decimal
}

// ActualsByInterval buckets each project's timesheet hours into weekly or
// monthly windows and prices them at the logging resource's blended rate.
// Every window is emitted, including empty ones and weekend-only edges.
func (c *Composer) ActualsByInterval(ctx context.Context, ids []generic.ProjectID, period generic.Period, iv capacity.Interval) ([]ActualsSeries, error) {
	if len(ids) == 0 {
		return nil, &generic.FieldError{Field: "project_ids", Message: "at least one project id is required"}
	}
	if iv != capacity.IntervalWeekly && iv != capacity.IntervalMonthly {
		return nil, &generic.FieldError{Field: "interval", Message: "must be Weekly or Monthly"}
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	rows, err := c.source.ActualsForProjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load actuals: %w", err)
	}
	names, err := c.source.ProjectNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load project names: %w", err)
	}
	roster, err := c.roster(ctx)
	if err != nil {
		return nil, err
	}

	windows := capacity.Windows(period, iv)
	out := make([]ActualsSeries, 0, len(ids))
	for _, pid := range sortedProjects(ids) {
		series := ActualsSeries{ProjectID: pid, ProjectName: nameOr(names, pid), Periods: make([]ActualsPeriod, len(windows))}
		for i, w := range windows {
			series.Periods[i].Period = w
		}
		for _, row := range rows {
			if row.ProjectID != pid || !period.Contains(row.Date) {
				continue
			}
			i := windowIndex(windows, row.Date)
			series.Periods[i].Hours += row.Hours
			series.Periods[i].Cost = series.Periods[i].Cost.Add(capacity.Cost(row.Hours, roster[row.ResourceID].BlendedRate))
		}
		for i := range series.Periods {
			p := &series.Periods[i]
			series.TotalHours += p.Hours
			series.TotalCost = series.TotalCost.Add(p.Cost)
			p.CumulativeHours = series.TotalHours
			p.CumulativeCost = series.TotalCost
		}
		out = append(out, series)
	}
	return out, nil
}

// windowIndex finds the window containing d. Windows tile the period.
func windowIndex(windows []generic.Period, d generic.Date) int {
	lo, hi := 0, len(windows)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if windows[mid].End.Before(d) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
