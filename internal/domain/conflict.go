package domain

import "time"

// Interval is a half-open [Start, End) time span used for conflict checks.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. An interval
// ending exactly when the other begins does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflict returns the first existing interval that overlaps the
// candidate, or nil when the candidate is free.
func FindConflict(candidate Interval, existing []Interval) *Interval {
	for i := range existing {
		if Overlaps(existing[i].Start, existing[i].End, candidate.Start, candidate.End) {
			return &existing[i]
		}
	}
	return nil
}

// SlotIntervals collects the occupied intervals of the given slots, skipping
// cancelled slots since they no longer block the calendar.
func SlotIntervals(slots []Slot) []Interval {
	out := make([]Interval, 0, len(slots))
	for _, s := range slots {
		if s.IsCancelled() {
			continue
		}
		out = append(out, Interval{Start: s.StartTime.UTC(), End: s.EndTime.UTC()})
	}
	return out
}
