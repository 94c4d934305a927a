package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AHmedaf123/SiteNest-sub002/internal/clock"
	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
	"github.com/AHmedaf123/SiteNest-sub002/internal/metrics"
	"github.com/AHmedaf123/SiteNest-sub002/internal/notify"
)

type BookingStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateRequest(ctx context.Context, req domain.BookingRequest) error
	GetRequest(ctx context.Context, requestID string) (domain.BookingRequest, error)
	GetRequestForUpdate(ctx context.Context, requestID string) (domain.BookingRequest, error)
	SetRequestStatus(ctx context.Context, requestID string, from, to domain.RequestStatus) (bool, error)
	MarkRequestConfirmed(ctx context.Context, requestID string, amount decimal.Decimal, confirmedAt time.Time) error
	CreateBooking(ctx context.Context, booking domain.Booking) error
	GetBooking(ctx context.Context, bookingID string) (domain.Booking, error)
}

// BookingService drives a request through pending → confirmed or
// cancelled. It owns request status exclusively; hold status belongs to
// the hold service and is only read here.
type BookingService struct {
	requests     BookingStore
	holds        *HoldService
	availability *AvailabilityService
	intervals    IntervalStore
	apartments   ApartmentStore
	clock        clock.Clock
	events       notify.Events
}

func NewBookingService(
	requests BookingStore,
	holds *HoldService,
	availability *AvailabilityService,
	intervals IntervalStore,
	apartments ApartmentStore,
	clk clock.Clock,
	events notify.Events,
) *BookingService {
	return &BookingService{
		requests:     requests,
		holds:        holds,
		availability: availability,
		intervals:    intervals,
		apartments:   apartments,
		clock:        clk,
		events:       events,
	}
}

type SubmitInput struct {
	UserID      string
	ApartmentID string
	CheckIn     time.Time
	CheckOut    time.Time
	GuestCount  int
}

// Submit checks availability, acquires a hold, and records a pending
// request. The check and the hold are two separate steps: a second
// caller may race in between, which is fine because holds coexist and
// confirmation arbitrates.
func (s *BookingService) Submit(ctx context.Context, in SubmitInput) (domain.BookingRequest, error) {
	now := s.clock.Now()
	if in.GuestCount < 1 {
		return domain.BookingRequest{}, domain.ErrInvalidGuestCount
	}
	if err := validateStay(now, in.CheckIn, in.CheckOut); err != nil {
		return domain.BookingRequest{}, err
	}

	apartment, err := s.apartments.GetApartment(ctx, in.ApartmentID)
	if err != nil {
		return domain.BookingRequest{}, err
	}

	free, err := s.availability.CheckAvailability(ctx, in.ApartmentID, in.CheckIn, in.CheckOut)
	if err != nil {
		return domain.BookingRequest{}, err
	}
	if !free || apartment.Sleeps() < in.GuestCount {
		return domain.BookingRequest{}, s.notAvailable(ctx, domain.ErrRoomNotAvailable, in.ApartmentID, in.CheckIn, in.CheckOut, in.GuestCount)
	}

	hold, err := s.holds.CreateHold(ctx, CreateHoldInput{
		ApartmentID: in.ApartmentID,
		UserID:      in.UserID,
		CheckIn:     in.CheckIn,
		CheckOut:    in.CheckOut,
	})
	if err != nil {
		return domain.BookingRequest{}, err
	}

	req := domain.BookingRequest{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		ApartmentID: in.ApartmentID,
		RoomNumber:  apartment.RoomNumber,
		CheckIn:     in.CheckIn,
		CheckOut:    in.CheckOut,
		GuestCount:  in.GuestCount,
		Status:      domain.RequestStatusPending,
		HoldID:      hold.ID,
		RequestDate: now,
	}
	if err := s.requests.CreateRequest(ctx, req); err != nil {
		// Do not strand the hold if the request row cannot be written.
		_, _ = s.holds.CancelHold(ctx, hold.ID)
		return domain.BookingRequest{}, err
	}
	return req, nil
}

// Confirm promotes a pending request once the off-platform payment has
// been approved. On losing the confirmation race the request is
// auto-cancelled and the caller gets alternatives; the confirm is never
// retried here, since retrying would just race again.
func (s *BookingService) Confirm(ctx context.Context, requestID string, amount decimal.Decimal) (domain.BookingRequest, error) {
	now := s.clock.Now()
	var (
		result  domain.BookingRequest
		booking domain.Booking
	)

	err := s.requests.WithTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetRequestForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}

		if _, err := s.holds.ConfirmHold(txCtx, req.HoldID); err != nil {
			return err
		}

		booking = domain.Booking{
			ID:               uuid.NewString(),
			BookingRequestID: req.ID,
			ApartmentID:      req.ApartmentID,
			CheckIn:          req.CheckIn,
			CheckOut:         req.CheckOut,
			Amount:           amount,
			CreatedAt:        now,
		}
		if err := s.requests.CreateBooking(txCtx, booking); err != nil {
			return err
		}
		if err := s.intervals.Insert(txCtx, domain.Interval{
			ID:          uuid.NewString(),
			ApartmentID: req.ApartmentID,
			Kind:        domain.IntervalConfirmed,
			StartsAt:    req.CheckIn,
			EndsAt:      req.CheckOut,
			BookingID:   booking.ID,
		}); err != nil {
			return err
		}
		if err := s.requests.MarkRequestConfirmed(txCtx, req.ID, amount, now); err != nil {
			return err
		}

		req.Status = domain.RequestStatusConfirmed
		req.ConfirmationAmount = amount
		req.PaymentReceived = true
		req.ConfirmedAt = &now
		result = req
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotNoLongerAvailable) {
			return domain.BookingRequest{}, s.loseRace(ctx, requestID)
		}
		return domain.BookingRequest{}, err
	}

	metrics.BookingsConfirmed.Inc()
	if s.events != nil {
		s.events.BookingConfirmed(booking)
	}
	return result, nil
}

// Cancel releases the underlying hold and marks the request cancelled.
// Idempotent; a confirmed request is not touched.
func (s *BookingService) Cancel(ctx context.Context, requestID string) (domain.BookingRequest, error) {
	var result domain.BookingRequest
	err := s.requests.WithTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetRequestForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		if req.Status != domain.RequestStatusPending {
			result = req
			return nil
		}
		if _, err := s.holds.CancelHold(txCtx, req.HoldID); err != nil {
			return err
		}
		if _, err := s.requests.SetRequestStatus(txCtx, requestID, domain.RequestStatusPending, domain.RequestStatusCancelled); err != nil {
			return err
		}
		req.Status = domain.RequestStatusCancelled
		result = req
		return nil
	})
	if err != nil {
		return domain.BookingRequest{}, err
	}
	return result, nil
}

// Get returns the request for polling and display.
func (s *BookingService) Get(ctx context.Context, requestID string) (domain.BookingRequest, error) {
	return s.requests.GetRequest(ctx, requestID)
}

// CancelBooking administratively removes a confirmed booking's
// interval, reopening the dates.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) error {
	return s.requests.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.requests.GetBooking(txCtx, bookingID); err != nil {
			return err
		}
		return s.intervals.RemoveByBooking(txCtx, bookingID)
	})
}

// loseRace records the lost confirmation: the request is cancelled in
// its own transaction (the confirming one already rolled back) and the
// caller gets alternatives to present.
func (s *BookingService) loseRace(ctx context.Context, requestID string) error {
	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	_ = s.requests.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.holds.CancelHold(txCtx, req.HoldID); err != nil {
			return err
		}
		_, err := s.requests.SetRequestStatus(txCtx, requestID, domain.RequestStatusPending, domain.RequestStatusCancelled)
		return err
	})
	return s.notAvailable(ctx, domain.ErrSlotNoLongerAvailable, req.ApartmentID, req.CheckIn, req.CheckOut, req.GuestCount)
}

func (s *BookingService) notAvailable(ctx context.Context, cause error, apartmentID string, checkIn, checkOut time.Time, guestCount int) error {
	alternatives, err := s.availability.FindAlternatives(ctx, apartmentID, checkIn, checkOut, guestCount, 0)
	if err != nil {
		alternatives = nil
	}
	return &domain.NotAvailableError{
		Err:          cause,
		ApartmentID:  apartmentID,
		Alternatives: alternatives,
	}
}
