package domain

import "time"

// DateRange is a half-open calendar-date interval [Start, End).
// End is the check-out date and is not itself a booked night.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals share at least one night:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1. Back-to-back ranges
// (one ends the day the other starts) do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Nights is the number of booked nights. Zero or negative means the range
// is invalid and must be rejected by the caller, never booked.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Valid reports whether the range covers at least one night.
func (r DateRange) Valid() bool {
	return r.Start.Before(r.End)
}

// DateOnly truncates t to midnight UTC so date arithmetic is unaffected by
// the caller's clock time or zone.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
