package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AHmedaf123/SiteNest-sub002/internal/app"
	"github.com/AHmedaf123/SiteNest-sub002/internal/clock"
	"github.com/AHmedaf123/SiteNest-sub002/internal/config"
	"github.com/AHmedaf123/SiteNest-sub002/internal/notify"
	"github.com/AHmedaf123/SiteNest-sub002/internal/storage/postgres"
	"github.com/AHmedaf123/SiteNest-sub002/internal/sweep"
	transporthttp "github.com/AHmedaf123/SiteNest-sub002/internal/transport/http"
	"github.com/AHmedaf123/SiteNest-sub002/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load(logger)
	logger.SetLevel(cfg.LogLevel)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("connect to db")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.WithError(err).Fatal("db ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	clk := clock.NewSystem()
	events := notify.NewLog(logger)

	apartmentRepo := postgres.NewApartmentRepository(pool)
	intervalRepo := postgres.NewIntervalRepository(pool)
	holdRepo := postgres.NewHoldRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)

	holdSvc := app.NewHoldService(holdRepo, intervalRepo, apartmentRepo, clk, events, app.WithHoldTTL(cfg.HoldTTL))
	availabilitySvc := app.NewAvailabilityService(intervalRepo, apartmentRepo, clk)
	bookingSvc := app.NewBookingService(bookingRepo, holdSvc, availabilitySvc, intervalRepo, apartmentRepo, clk, events)
	apartmentSvc := app.NewApartmentService(apartmentRepo)

	sweeper := sweep.New(holdRepo, intervalRepo, clk, events, logger, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/availability", transporthttp.HandleCheckAvailability(availabilitySvc))
	mux.Handle("/availability/search", transporthttp.HandleSearchAvailable(availabilitySvc))
	mux.Handle("/booking-requests", transporthttp.HandleSubmitRequest(bookingSvc))
	mux.Handle("/booking-requests/", transporthttp.HandleBookingRequest(bookingSvc))
	mux.Handle("/admin/apartments", transporthttp.HandleAdminApartments(apartmentSvc))
	mux.Handle("/admin/bookings/", transporthttp.HandleAdminCancelBooking(bookingSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.WithField("port", cfg.Port).Info("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server error")
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("server shutdown error")
	}
	logger.Info("server stopped")
}
