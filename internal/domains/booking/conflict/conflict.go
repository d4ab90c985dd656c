// Package conflict decides whether a requested window collides with existing bookings.
package conflict

import "time"

// Interval is half-open: it contains Start and excludes End.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval is non-empty.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether a and b share at least one instant. Touching boundaries do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Booking is the projection of an existing request the detector needs.
type Booking struct {
	ID     string    `db:"id"`
	Start  time.Time `db:"start_time"`
	End    time.Time `db:"end_time"`
	Status string    `db:"status"`
}

// Query describes a candidate booking. Whole marks units that are occupied regardless of window.
type Query struct {
	ResourceID string
	Window     Interval
	ExcludeID  string
	Whole      bool
}

// Find returns the first existing booking that collides with q. Candidates are expected to be
// pre-filtered to the statuses that block the resource.
func Find(q Query, existing []Booking) (Booking, bool) {
	for _, b := range existing {
		if b.ID == q.ExcludeID {
			continue
		}

		if q.Whole || Overlaps(q.Window, Interval{Start: b.Start, End: b.End}) {
			return b, true
		}
	}

	return Booking{}, false
}
