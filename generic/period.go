package generic

// =============================================================================
// PERIOD - Inclusive date range, the unit every query is asked over
// =============================================================================

// Period is an inclusive range of calendar days [Start, End].
//
// Examples:
//   - Query range:       2025-01-01 .. 2025-12-31
//   - Allocation range:  2025-03-03 .. 2025-06-30
//   - Single-day period: 2025-02-14 .. 2025-02-14
type Period struct {
	Start Date
	End   Date
}

// NewPeriod builds a period and validates it.
func NewPeriod(start, end Date) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// YearPeriod returns Jan 1 .. Dec 31 of the given year.
func YearPeriod(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

// Validate rejects periods whose end precedes their start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return &InvalidRangeError{Field: "date range", Start: p.Start, End: p.End}
	}
	return nil
}

// Contains returns true if the day is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Overlaps reports whether the two periods share at least one day.
func (p Period) Overlaps(other Period) bool {
	return !p.End.Before(other.Start) && !other.End.Before(p.Start)
}

// Intersect returns the shared days of two periods.
// The boolean is false when they do not overlap.
func (p Period) Intersect(other Period) (Period, bool) {
	if !p.Overlaps(other) {
		return Period{}, false
	}
	return Period{Start: MaxDate(p.Start, other.Start), End: MinDate(p.End, other.End)}, true
}

// Workdays returns the Monday-Friday days of the period in order.
// An inverted period yields an empty slice; callers validate first.
func (p Period) Workdays() []Date {
	days := []Date{}
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		if current.IsWorkday() {
			days = append(days, current)
		}
	}
	return days
}

// WorkdayCount is len(p.Workdays()) without the allocation.
func (p Period) WorkdayCount() int {
	n := 0
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		if current.IsWorkday() {
			n++
		}
	}
	return n
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
