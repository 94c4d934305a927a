package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AHmedaf123/SiteNest-sub002/internal/clock"
	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
	"github.com/AHmedaf123/SiteNest-sub002/internal/metrics"
	"github.com/AHmedaf123/SiteNest-sub002/internal/notify"
)

type HoldStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateHold(ctx context.Context, hold domain.Hold) error
	GetHold(ctx context.Context, holdID string) (domain.Hold, error)
	GetHoldForUpdate(ctx context.Context, holdID string) (domain.Hold, error)
	// SetHoldStatus transitions the hold only when it still has the
	// expected status; it reports whether a row changed.
	SetHoldStatus(ctx context.Context, holdID string, from, to domain.HoldStatus, updatedAt time.Time) (bool, error)
}

type IntervalStore interface {
	Insert(ctx context.Context, iv domain.Interval) error
	Remove(ctx context.Context, intervalID string) error
	RemoveByHold(ctx context.Context, holdID string) error
	RemoveByBooking(ctx context.Context, bookingID string) error
	Overlapping(ctx context.Context, apartmentID string, start, end time.Time) ([]domain.Interval, error)
	ListByApartment(ctx context.Context, apartmentID string) ([]domain.Interval, error)
}

type ApartmentStore interface {
	GetApartment(ctx context.Context, apartmentID string) (domain.Apartment, error)
	// GetApartmentForUpdate locks the apartment row for the duration of
	// the transaction. Confirmation serializes on this lock.
	GetApartmentForUpdate(ctx context.Context, apartmentID string) (domain.Apartment, error)
	ListApartments(ctx context.Context) ([]domain.Apartment, error)
}

// HoldService owns the hold lifecycle: active is the only non-terminal
// state, and every transition out of it happens here or in the sweeper.
type HoldService struct {
	holds      HoldStore
	intervals  IntervalStore
	apartments ApartmentStore
	clock      clock.Clock
	events     notify.Events
	holdTTL    time.Duration
}

const defaultHoldTTL = 45 * time.Minute

func NewHoldService(holds HoldStore, intervals IntervalStore, apartments ApartmentStore, clk clock.Clock, events notify.Events, opts ...HoldServiceOption) *HoldService {
	svc := &HoldService{
		holds:      holds,
		intervals:  intervals,
		apartments: apartments,
		clock:      clk,
		events:     events,
		holdTTL:    defaultHoldTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type HoldServiceOption func(*HoldService)

// WithHoldTTL overrides the default TTL for new holds.
func WithHoldTTL(d time.Duration) HoldServiceOption {
	return func(s *HoldService) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

type CreateHoldInput struct {
	ApartmentID string
	UserID      string
	CheckIn     time.Time
	CheckOut    time.Time
}

// CreateHold places a time-boxed claim on the apartment/date-range.
// It deliberately does not reject on overlap with other active holds:
// a hold means "I intend to pay", and the real conflict is resolved at
// confirmation time.
func (s *HoldService) CreateHold(ctx context.Context, in CreateHoldInput) (domain.Hold, error) {
	now := s.clock.Now()
	if err := validateStay(now, in.CheckIn, in.CheckOut); err != nil {
		return domain.Hold{}, err
	}

	hold := domain.Hold{
		ID:          uuid.NewString(),
		ApartmentID: in.ApartmentID,
		UserID:      in.UserID,
		CheckIn:     in.CheckIn,
		CheckOut:    in.CheckOut,
		Status:      domain.HoldStatusActive,
		ExpiresAt:   now.Add(s.holdTTL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.holds.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.apartments.GetApartment(txCtx, in.ApartmentID); err != nil {
			return err
		}
		if err := s.holds.CreateHold(txCtx, hold); err != nil {
			return err
		}
		return s.intervals.Insert(txCtx, domain.Interval{
			ID:          uuid.NewString(),
			ApartmentID: in.ApartmentID,
			Kind:        domain.IntervalHeld,
			StartsAt:    in.CheckIn,
			EndsAt:      in.CheckOut,
			HoldID:      hold.ID,
			ExpiresAt:   hold.ExpiresAt,
		})
	})
	if err != nil {
		return domain.Hold{}, err
	}

	metrics.HoldsCreated.Inc()
	return hold, nil
}

// ConfirmHold is the single point where true double-booking is
// prevented. Inside one transaction it locks the apartment row, checks
// the hold is still usable, and runs a final overlap check against
// confirmed intervals only — other holds do not block confirmation.
// The first transaction to take the lock wins; the loser gets
// ErrSlotNoLongerAvailable.
func (s *HoldService) ConfirmHold(ctx context.Context, holdID string) (domain.Hold, error) {
	now := s.clock.Now()
	var result domain.Hold

	err := s.holds.WithTx(ctx, func(txCtx context.Context) error {
		hold, err := s.holds.GetHoldForUpdate(txCtx, holdID)
		if err != nil {
			return err
		}

		switch hold.Status {
		case domain.HoldStatusConfirmed:
			return domain.ErrHoldAlreadyConfirmed
		case domain.HoldStatusCancelled:
			return domain.ErrHoldCancelled
		case domain.HoldStatusExpired:
			return domain.ErrHoldExpired
		}
		if hold.ExpiredAt(now) {
			return domain.ErrHoldExpired
		}

		if _, err := s.apartments.GetApartmentForUpdate(txCtx, hold.ApartmentID); err != nil {
			return err
		}

		overlaps, err := s.intervals.Overlapping(txCtx, hold.ApartmentID, hold.CheckIn, hold.CheckOut)
		if err != nil {
			return err
		}
		for _, iv := range overlaps {
			if iv.Kind == domain.IntervalConfirmed {
				metrics.ConfirmConflicts.Inc()
				return domain.ErrSlotNoLongerAvailable
			}
		}

		changed, err := s.holds.SetHoldStatus(txCtx, holdID, domain.HoldStatusActive, domain.HoldStatusConfirmed, now)
		if err != nil {
			return err
		}
		if !changed {
			return domain.ErrHoldNotFound
		}
		if err := s.intervals.RemoveByHold(txCtx, holdID); err != nil {
			return err
		}

		hold.Status = domain.HoldStatusConfirmed
		hold.UpdatedAt = now
		result = hold
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}
	return result, nil
}

// CancelHold releases the hold's claim on availability. Idempotent:
// terminal holds are left untouched.
func (s *HoldService) CancelHold(ctx context.Context, holdID string) (domain.Hold, error) {
	return s.release(ctx, holdID, domain.HoldStatusCancelled)
}

// ExpireHold transitions a timed-out hold to expired. Idempotent.
func (s *HoldService) ExpireHold(ctx context.Context, holdID string) (domain.Hold, error) {
	hold, err := s.release(ctx, holdID, domain.HoldStatusExpired)
	if err == nil && hold.Status == domain.HoldStatusExpired {
		metrics.HoldsExpired.Inc()
	}
	return hold, err
}

// GetHold returns the hold regardless of status, for display.
func (s *HoldService) GetHold(ctx context.Context, holdID string) (domain.Hold, error) {
	return s.holds.GetHold(ctx, holdID)
}

func (s *HoldService) release(ctx context.Context, holdID string, to domain.HoldStatus) (domain.Hold, error) {
	now := s.clock.Now()
	var result domain.Hold
	released := false

	err := s.holds.WithTx(ctx, func(txCtx context.Context) error {
		hold, err := s.holds.GetHoldForUpdate(txCtx, holdID)
		if err != nil {
			return err
		}
		if hold.Terminal() {
			result = hold
			return nil
		}

		changed, err := s.holds.SetHoldStatus(txCtx, holdID, domain.HoldStatusActive, to, now)
		if err != nil {
			return err
		}
		if changed {
			if err := s.intervals.RemoveByHold(txCtx, holdID); err != nil {
				return err
			}
			hold.Status = to
			hold.UpdatedAt = now
			released = true
		}
		result = hold
		return nil
	})
	if err != nil {
		return domain.Hold{}, err
	}

	if released && s.events != nil {
		s.events.HoldReleased(result)
	}
	return result, nil
}

// validateStay rejects empty or backwards ranges and check-ins on days
// already past. Same-day check-in stays valid for the whole day.
func validateStay(now, checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return domain.ErrInvalidRange
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return domain.ErrInvalidRange
	}
	return nil
}
