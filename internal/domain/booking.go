package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusConfirmed RequestStatus = "confirmed"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// BookingRequest tracks a guest's intent to book, independent of
// payment mechanics. It references the hold acquired on submission but
// owns its own status: a request can be cancelled while the hold runs
// out on its own clock, and vice versa.
type BookingRequest struct {
	ID                 string
	UserID             string
	ApartmentID        string
	RoomNumber         string
	CheckIn            time.Time
	CheckOut           time.Time
	GuestCount         int
	Status             RequestStatus
	HoldID             string
	ConfirmationAmount decimal.Decimal
	PaymentReceived    bool
	AdminNotes         string
	RequestDate        time.Time
	ConfirmedAt        *time.Time
}

// Booking is the permanent record produced when a request is
// confirmed. It owns the confirmed interval on the apartment.
type Booking struct {
	ID               string
	BookingRequestID string
	ApartmentID      string
	CheckIn          time.Time
	CheckOut         time.Time
	Amount           decimal.Decimal
	CreatedAt        time.Time
}
