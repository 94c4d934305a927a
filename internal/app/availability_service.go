package app

import (
	"context"
	"time"

	"github.com/AHmedaf123/SiteNest-sub002/internal/clock"
	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

const defaultAlternativesLimit = 3

// AvailabilityService answers "is this apartment free for these dates"
// by combining confirmed bookings and live holds from the interval
// store. Reads are advisory: they may be stale by the time a caller
// acts on them, and confirmation re-checks under a lock.
type AvailabilityService struct {
	intervals  IntervalStore
	apartments ApartmentStore
	clock      clock.Clock
}

func NewAvailabilityService(intervals IntervalStore, apartments ApartmentStore, clk clock.Clock) *AvailabilityService {
	return &AvailabilityService{
		intervals:  intervals,
		apartments: apartments,
		clock:      clk,
	}
}

// CheckAvailability reports whether the apartment is free for
// [checkIn, checkOut). Held intervals past their expiry are treated as
// absent even before the sweeper runs.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, apartmentID string, checkIn, checkOut time.Time) (bool, error) {
	if _, err := s.apartments.GetApartment(ctx, apartmentID); err != nil {
		return false, err
	}
	return s.rangeFree(ctx, apartmentID, checkIn, checkOut)
}

// FindAvailable scans all apartments in stable listing order and
// returns those free for the range. A positive guestCount filters by
// capacity; zero means any size.
func (s *AvailabilityService) FindAvailable(ctx context.Context, checkIn, checkOut time.Time, guestCount int) ([]domain.Apartment, error) {
	return s.findAvailable(ctx, "", checkIn, checkOut, guestCount, 0)
}

// FindAlternatives lists up to limit available apartments other than
// the excluded one, used when the requested unit is taken.
func (s *AvailabilityService) FindAlternatives(ctx context.Context, excludeApartmentID string, checkIn, checkOut time.Time, guestCount, limit int) ([]domain.Apartment, error) {
	if limit <= 0 {
		limit = defaultAlternativesLimit
	}
	return s.findAvailable(ctx, excludeApartmentID, checkIn, checkOut, guestCount, limit)
}

func (s *AvailabilityService) findAvailable(ctx context.Context, excludeID string, checkIn, checkOut time.Time, guestCount, limit int) ([]domain.Apartment, error) {
	apartments, err := s.apartments.ListApartments(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]domain.Apartment, 0, len(apartments))
	for _, apt := range apartments {
		if apt.ID == excludeID {
			continue
		}
		if guestCount > 0 && apt.Sleeps() < guestCount {
			continue
		}
		free, err := s.rangeFree(ctx, apt.ID, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		if !free {
			continue
		}
		available = append(available, apt)
		if limit > 0 && len(available) == limit {
			break
		}
	}
	return available, nil
}

func (s *AvailabilityService) rangeFree(ctx context.Context, apartmentID string, checkIn, checkOut time.Time) (bool, error) {
	overlaps, err := s.intervals.Overlapping(ctx, apartmentID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	now := s.clock.Now()
	for _, iv := range overlaps {
		if iv.BlocksAvailability(now) {
			return false, nil
		}
	}
	return true, nil
}
