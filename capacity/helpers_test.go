package capacity

import (
	"github.com/shopspring/decimal"
	"github.com/warp/capacity-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// tenHourResource has daily capacity 2610 / 261 = 10 hours.
func tenHourResource() generic.Resource {
	return generic.Resource{
		ID:             1,
		Name:           "Ada Lovelace",
		Role:           "Engineer",
		YearlyCapacity: 2610,
		BlendedRate:    decimal.NewFromInt(100),
	}
}

func day(s string) generic.Date {
	return generic.MustParseDate(s)
}

func span(start, end string) generic.Period {
	return generic.Period{Start: day(start), End: day(end)}
}

func pctAlloc(project generic.ProjectID, start, end string, pct float64) generic.Allocation {
	return generic.Allocation{
		ResourceID: 1,
		ProjectID:  project,
		Start:      day(start),
		End:        day(end),
		Pct:        generic.Float(pct),
	}
}

func hoursAlloc(project generic.ProjectID, start, end string, hrs float64) generic.Allocation {
	return generic.Allocation{
		ResourceID: 1,
		ProjectID:  project,
		Start:      day(start),
		End:        day(end),
		HrsPerWeek: generic.Float(hrs),
	}
}

func actual(project generic.ProjectID, on string, hours float64) generic.TimesheetActual {
	return generic.TimesheetActual{ResourceID: 1, ProjectID: project, Date: day(on), Hours: hours}
}

func timeOff(start, end string) generic.TimeOff {
	return generic.TimeOff{ResourceID: 1, Start: day(start), End: day(end)}
}

func sumPlanned(records []Record) float64 {
	total := 0.0
	for _, r := range records {
		total += r.Planned
	}
	return total
}
