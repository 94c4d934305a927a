package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HoldsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_holds_created_total",
		Help: "Holds created by guests",
	})

	HoldsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_holds_expired_total",
		Help: "Holds released by the expiration sweeper",
	})

	ConfirmConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_confirm_conflicts_total",
		Help: "Confirm attempts that lost the race to an overlapping booking",
	})

	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservation_bookings_confirmed_total",
		Help: "Booking requests promoted to confirmed bookings",
	})

	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_sweep_runs_total",
		Help: "Expiration sweep cycles by outcome",
	}, []string{"status"})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reservation_sweep_duration_seconds",
		Help:    "Duration of expiration sweep cycles",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
)
