package model

import "time"

// DateRange is a closed interval of calendar dates. Both endpoints are
// part of the range: a rental ending on day D still occupies day D.
type DateRange struct {
	From time.Time `json:"from" bson:"from" validate:"required"`
	To   time.Time `json:"to" bson:"to" validate:"required"`
}

// Valid reports whether the range is chronological (From <= To).
func (r DateRange) Valid() bool {
	return !r.From.After(r.To)
}

// Overlaps reports whether two closed ranges share at least one day.
// [s1,e1] and [s2,e2] overlap iff s1 <= e2 && e1 >= s2, so two rentals
// sharing a single boundary date conflict (no same-day handover).
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.From.After(other.To) && !r.To.Before(other.From)
}

func (r DateRange) String() string {
	return r.From.Format("2006-01-02") + "/" + r.To.Format("2006-01-02")
}

// IntervalSet holds the committed date ranges of one tool, in the
// order they were reserved. The set invariant (no two entries overlap)
// is maintained by the reservation path, not here.
type IntervalSet []DateRange

// Conflicts returns every committed range overlapping the candidate.
// Linear scan; tools carry tens of bookings, not thousands.
func (s IntervalSet) Conflicts(candidate DateRange) []DateRange {
	var conflicts []DateRange
	for _, committed := range s {
		if committed.Overlaps(candidate) {
			conflicts = append(conflicts, committed)
		}
	}
	return conflicts
}

// HasConflict reports whether any committed range overlaps candidate.
func (s IntervalSet) HasConflict(candidate DateRange) bool {
	for _, committed := range s {
		if committed.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// Add appends a range. The caller must have verified non-overlap; Add
// on its own is not safe against a concurrent check on the same tool.
func (s IntervalSet) Add(r DateRange) IntervalSet {
	return append(s, r)
}
