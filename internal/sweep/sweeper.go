package sweep

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AHmedaf123/SiteNest-sub002/internal/clock"
	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
	"github.com/AHmedaf123/SiteNest-sub002/internal/metrics"
	"github.com/AHmedaf123/SiteNest-sub002/internal/notify"
)

type HoldStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// ExpireDue transitions active holds past their TTL to expired and
	// returns them. The transition is conditional on status, so
	// concurrent sweeps (or multiple instances) are safe.
	ExpireDue(ctx context.Context, now time.Time, limit int) ([]domain.Hold, error)
}

type IntervalStore interface {
	RemoveByHold(ctx context.Context, holdID string) error
}

const defaultBatchSize = 100

// Sweeper is the background process that releases timed-out holds.
// Availability reads do not depend on it: expired holds are filtered
// inline, so a lagging or failed sweep only delays bookkeeping.
type Sweeper struct {
	holds     HoldStore
	intervals IntervalStore
	clock     clock.Clock
	events    notify.Events
	logger    *logrus.Logger
	interval  time.Duration
	batchSize int
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func New(holds HoldStore, intervals IntervalStore, clk clock.Clock, events notify.Events, logger *logrus.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		holds:     holds,
		intervals: intervals,
		clock:     clk,
		events:    events,
		logger:    logger,
		interval:  interval,
		batchSize: defaultBatchSize,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins sweeping on the configured interval.
func (s *Sweeper) Start() {
	s.logger.WithField("interval", s.interval.String()).Info("starting expiration sweeper")
	go s.run()
}

// Stop terminates the sweep loop and waits for it to finish.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.logger.Info("expiration sweeper stopped")
}

func (s *Sweeper) run() {
	defer close(s.doneCh)

	// Sweep once on startup to clear anything left over from downtime.
	s.RunOnce(context.Background())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce executes a single sweep cycle. Failures are logged and left
// for the next tick; they are never fatal.
func (s *Sweeper) RunOnce(ctx context.Context) {
	start := time.Now()
	swept, err := s.sweep(ctx)
	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SweepRuns.WithLabelValues("error").Inc()
		s.logger.WithError(err).Error("sweep failed, will retry on next tick")
		return
	}
	metrics.SweepRuns.WithLabelValues("ok").Inc()

	if len(swept) == 0 {
		return
	}
	metrics.HoldsExpired.Add(float64(len(swept)))
	s.logger.WithField("count", len(swept)).Info("expired holds released")
	for _, hold := range swept {
		if s.events != nil {
			s.events.HoldReleased(hold)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) ([]domain.Hold, error) {
	now := s.clock.Now()
	var swept []domain.Hold

	err := s.holds.WithTx(ctx, func(txCtx context.Context) error {
		due, err := s.holds.ExpireDue(txCtx, now, s.batchSize)
		if err != nil {
			return err
		}
		for _, hold := range due {
			if err := s.intervals.RemoveByHold(txCtx, hold.ID); err != nil {
				return err
			}
		}
		swept = due
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swept, nil
}
