package notify

import (
	"github.com/sirupsen/logrus"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

// Events receives reservation lifecycle notifications. Non-core layers
// (UI refresh, dependent caches) subscribe here instead of the engine
// knowing about them.
type Events interface {
	// HoldReleased fires when a hold stops counting against
	// availability, whether expired by the sweeper or cancelled.
	HoldReleased(hold domain.Hold)
	// BookingConfirmed fires when a request is promoted to a booking.
	BookingConfirmed(booking domain.Booking)
}

// Log is an Events sink that records notifications as structured log
// lines. It is the default production subscriber.
type Log struct {
	Logger *logrus.Logger
}

func NewLog(logger *logrus.Logger) *Log {
	return &Log{Logger: logger}
}

func (l *Log) HoldReleased(hold domain.Hold) {
	l.Logger.WithFields(logrus.Fields{
		"hold_id":      hold.ID,
		"apartment_id": hold.ApartmentID,
		"status":       hold.Status,
		"check_in":     hold.CheckIn.Format("2006-01-02"),
		"check_out":    hold.CheckOut.Format("2006-01-02"),
	}).Info("hold released")
}

func (l *Log) BookingConfirmed(booking domain.Booking) {
	l.Logger.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"apartment_id": booking.ApartmentID,
		"check_in":     booking.CheckIn.Format("2006-01-02"),
		"check_out":    booking.CheckOut.Format("2006-01-02"),
	}).Info("booking confirmed")
}

// Fanout dispatches each notification to every subscriber in order.
type Fanout []Events

func (f Fanout) HoldReleased(hold domain.Hold) {
	for _, sub := range f {
		sub.HoldReleased(hold)
	}
}

func (f Fanout) BookingConfirmed(booking domain.Booking) {
	for _, sub := range f {
		sub.BookingConfirmed(booking)
	}
}
