/*
time.go - Calendar dates and working-day arithmetic

PURPOSE:
  Date is the only time abstraction the capacity engine uses. Every
  computation happens at day granularity: there are no hours-of-day,
  no time zones, no partial days. All Dates are normalized to UTC midnight
  so equality and map keys behave.

WORKING DAYS:
  Monday to Friday. Weekends never carry capacity. Company holidays are
  not modelled; they arrive as time-off entries per resource instead.

WIRE FORMAT:
  "2006-01-02" (ISO calendar date) for JSON and for query parameters.

SEE ALSO:
  - period.go: Inclusive date ranges and working-day enumeration
  - capacity/partition.go: Weekly and monthly windows built on these helpers
*/
package generic

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the canonical wire format for calendar dates.
const DateLayout = "2006-01-02"

// =============================================================================
// DATE - Calendar day (this IS a day-granularity system)
// =============================================================================

// Date is a calendar day at UTC midnight.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool       { wd := d.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (d Date) IsWorkday() bool       { return !d.IsWeekend() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// StartOfWeek returns the Monday on or before d.
func (d Date) StartOfWeek() Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// EndOfWeek returns the Sunday on or after d.
func (d Date) EndOfWeek() Date {
	return d.StartOfWeek().AddDays(6)
}

func (d Date) StartOfMonth() Date { return StartOfMonth(d.Year(), d.Month()) }
func (d Date) EndOfMonth() Date   { return EndOfMonth(d.Year(), d.Month()) }

// NextWorkday returns the first working day strictly after d.
func (d Date) NextWorkday() Date {
	next := d.AddDays(1)
	for next.IsWeekend() {
		next = next.AddDays(1)
	}
	return next
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

func StartOfYear(year int) Date                    { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date                      { return NewDate(year, time.December, 31) }
func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }
func EndOfMonth(year int, month time.Month) Date {
	return DateOf(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}
