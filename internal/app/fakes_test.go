package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

// memStore is an in-memory stand-in for every postgres repository,
// shared by the service tests in this package.
type memStore struct {
	mu         sync.Mutex
	apartments map[string]domain.Apartment
	holds      map[string]domain.Hold
	intervals  []domain.Interval
	requests   map[string]domain.BookingRequest
	bookings   map[string]domain.Booking
}

func newMemStore(apartments ...domain.Apartment) *memStore {
	s := &memStore{
		apartments: make(map[string]domain.Apartment),
		holds:      make(map[string]domain.Hold),
		requests:   make(map[string]domain.BookingRequest),
		bookings:   make(map[string]domain.Booking),
	}
	for _, a := range apartments {
		s.apartments[a.ID] = a
	}
	return s
}

func (s *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *memStore) GetApartment(_ context.Context, apartmentID string) (domain.Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apt, ok := s.apartments[apartmentID]
	if !ok {
		return domain.Apartment{}, domain.ErrApartmentNotFound
	}
	return apt, nil
}

func (s *memStore) GetApartmentForUpdate(ctx context.Context, apartmentID string) (domain.Apartment, error) {
	return s.GetApartment(ctx, apartmentID)
}

func (s *memStore) ListApartments(_ context.Context) ([]domain.Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Apartment, 0, len(s.apartments))
	for _, a := range s.apartments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (s *memStore) CreateApartment(_ context.Context, apartment domain.Apartment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.apartments {
		if existing.RoomNumber == apartment.RoomNumber {
			return domain.ErrRoomNumberTaken
		}
	}
	s.apartments[apartment.ID] = apartment
	return nil
}

func (s *memStore) CreateHold(_ context.Context, hold domain.Hold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds[hold.ID] = hold
	return nil
}

func (s *memStore) GetHold(_ context.Context, holdID string) (domain.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hold, ok := s.holds[holdID]
	if !ok {
		return domain.Hold{}, domain.ErrHoldNotFound
	}
	return hold, nil
}

func (s *memStore) GetHoldForUpdate(ctx context.Context, holdID string) (domain.Hold, error) {
	return s.GetHold(ctx, holdID)
}

func (s *memStore) SetHoldStatus(_ context.Context, holdID string, from, to domain.HoldStatus, updatedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hold, ok := s.holds[holdID]
	if !ok || hold.Status != from {
		return false, nil
	}
	hold.Status = to
	hold.UpdatedAt = updatedAt
	s.holds[holdID] = hold
	return true, nil
}

func (s *memStore) ExpireDue(_ context.Context, now time.Time, limit int) ([]domain.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []domain.Hold
	for id, hold := range s.holds {
		if hold.Status != domain.HoldStatusActive || hold.ExpiresAt.After(now) {
			continue
		}
		hold.Status = domain.HoldStatusExpired
		hold.UpdatedAt = now
		s.holds[id] = hold
		due = append(due, hold)
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (s *memStore) Insert(_ context.Context, iv domain.Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intervals = append(s.intervals, iv)
	return nil
}

func (s *memStore) Remove(_ context.Context, intervalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeWhere(func(iv domain.Interval) bool { return iv.ID == intervalID })
	return nil
}

func (s *memStore) RemoveByHold(_ context.Context, holdID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeWhere(func(iv domain.Interval) bool { return iv.HoldID == holdID })
	return nil
}

func (s *memStore) RemoveByBooking(_ context.Context, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeWhere(func(iv domain.Interval) bool { return iv.BookingID == bookingID })
	return nil
}

func (s *memStore) removeWhere(match func(domain.Interval) bool) {
	kept := s.intervals[:0]
	for _, iv := range s.intervals {
		if !match(iv) {
			kept = append(kept, iv)
		}
	}
	s.intervals = kept
}

func (s *memStore) Overlapping(_ context.Context, apartmentID string, start, end time.Time) ([]domain.Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Interval
	for _, iv := range s.intervals {
		if iv.ApartmentID != apartmentID {
			continue
		}
		if domain.Overlaps(iv.StartsAt, iv.EndsAt, start, end) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (s *memStore) ListByApartment(_ context.Context, apartmentID string) ([]domain.Interval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Interval
	for _, iv := range s.intervals {
		if iv.ApartmentID == apartmentID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (s *memStore) CreateRequest(_ context.Context, req domain.BookingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = req
	return nil
}

func (s *memStore) GetRequest(_ context.Context, requestID string) (domain.BookingRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return domain.BookingRequest{}, domain.ErrRequestNotFound
	}
	return req, nil
}

func (s *memStore) GetRequestForUpdate(ctx context.Context, requestID string) (domain.BookingRequest, error) {
	return s.GetRequest(ctx, requestID)
}

func (s *memStore) SetRequestStatus(_ context.Context, requestID string, from, to domain.RequestStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	s.requests[requestID] = req
	return true, nil
}

func (s *memStore) MarkRequestConfirmed(_ context.Context, requestID string, amount decimal.Decimal, confirmedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.Status != domain.RequestStatusPending {
		return domain.ErrRequestNotFound
	}
	req.Status = domain.RequestStatusConfirmed
	req.ConfirmationAmount = amount
	req.PaymentReceived = true
	req.ConfirmedAt = &confirmedAt
	s.requests[requestID] = req
	return nil
}

func (s *memStore) CreateBooking(_ context.Context, booking domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[booking.ID] = booking
	return nil
}

func (s *memStore) GetBooking(_ context.Context, bookingID string) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[bookingID]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return booking, nil
}

// recorderEvents captures notifications for assertions.
type recorderEvents struct {
	mu        sync.Mutex
	released  []domain.Hold
	confirmed []domain.Booking
}

func (r *recorderEvents) HoldReleased(hold domain.Hold) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, hold)
}

func (r *recorderEvents) BookingConfirmed(booking domain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmed = append(r.confirmed, booking)
}

func (r *recorderEvents) releasedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.released)
}
