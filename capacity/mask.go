package capacity

import "github.com/warp/capacity-engine/generic"

// TimeOffMask answers "is the resource away on this day".
// A day is unavailable iff it lies inside any time-off range; how the range
// relates to the query window does not matter.
type TimeOffMask struct {
	ranges []generic.Period
}

func NewTimeOffMask(entries []generic.TimeOff) TimeOffMask {
	ranges := make([]generic.Period, 0, len(entries))
	for _, e := range entries {
		ranges = append(ranges, e.Period())
	}
	return TimeOffMask{ranges: ranges}
}

// Unavailable reports whether d is covered by time-off.
func (m TimeOffMask) Unavailable(d generic.Date) bool {
	for _, r := range m.ranges {
		if r.Contains(d) {
			return true
		}
	}
	return false
}
