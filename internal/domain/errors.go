package domain

import "errors"

var (
	ErrApartmentNotFound     = errors.New("apartment not found")
	ErrInvalidRange          = errors.New("invalid date range")
	ErrInvalidGuestCount     = errors.New("invalid guest count")
	ErrHoldNotFound          = errors.New("hold not found")
	ErrHoldExpired           = errors.New("hold expired")
	ErrHoldAlreadyConfirmed  = errors.New("hold already confirmed")
	ErrHoldCancelled         = errors.New("hold cancelled")
	ErrRoomNotAvailable      = errors.New("room not available")
	ErrSlotNoLongerAvailable = errors.New("slot no longer available")
	ErrRequestNotFound       = errors.New("booking request not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrRoomNumberTaken       = errors.New("room number already exists")
	ErrRoomNumberRequired    = errors.New("room number is required")
	ErrInvalidBedrooms       = errors.New("bedrooms must be positive")
	ErrInvalidPrice          = errors.New("price must not be negative")
	ErrInvalidID             = errors.New("invalid id")
)

// NotAvailableError is returned when the requested apartment cannot be
// booked for the range, either up front (ErrRoomNotAvailable) or after
// losing the confirmation race (ErrSlotNoLongerAvailable). It carries
// alternatives so the caller can recover without a second round trip;
// the engine never silently substitutes another apartment.
type NotAvailableError struct {
	Err          error
	ApartmentID  string
	Alternatives []Apartment
}

func (e *NotAvailableError) Error() string {
	return e.Err.Error()
}

func (e *NotAvailableError) Unwrap() error {
	return e.Err
}
