package domain

import "time"

type IntervalKind string

const (
	IntervalConfirmed IntervalKind = "confirmed"
	IntervalHeld      IntervalKind = "held"
)

// Interval is a half-open [StartsAt, EndsAt) claim on an apartment.
// Confirmed intervals are backed by a booking and are permanent until
// administrative cancellation; held intervals are backed by an active
// hold and carry its expiry.
type Interval struct {
	ID          string
	ApartmentID string
	Kind        IntervalKind
	StartsAt    time.Time
	EndsAt      time.Time
	HoldID      string
	BookingID   string
	ExpiresAt   time.Time
}

// Overlaps reports whether [a,b) and [c,d) intersect.
func Overlaps(a, b, c, d time.Time) bool {
	return a.Before(d) && c.Before(b)
}

// BlocksAvailability reports whether the interval counts against
// availability at the given instant. Confirmed intervals always do;
// held intervals only while unexpired, so a lagging sweeper cannot
// keep a dead hold blocking the calendar.
func (iv Interval) BlocksAvailability(now time.Time) bool {
	if iv.Kind == IntervalConfirmed {
		return true
	}
	return iv.ExpiresAt.After(now)
}
