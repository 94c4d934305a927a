package domain

import "time"

type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusConfirmed HoldStatus = "confirmed"
	HoldStatusExpired   HoldStatus = "expired"
	HoldStatusCancelled HoldStatus = "cancelled"
)

// Hold is a time-boxed, non-final claim on an apartment/date-range.
// Holds are optimistic: several guests may hold the same contested
// range at once, and the true conflict is resolved at confirmation
// time. Active is the only non-terminal status; holds are never
// physically deleted.
type Hold struct {
	ID          string
	ApartmentID string
	UserID      string
	CheckIn     time.Time
	CheckOut    time.Time
	Status      HoldStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Terminal reports whether the hold has left the active state.
func (h Hold) Terminal() bool {
	return h.Status != HoldStatusActive
}

// ExpiredAt reports whether the hold's TTL has lapsed at the given
// instant, regardless of whether the sweeper has run yet.
func (h Hold) ExpiredAt(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
