package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
	"github.com/AHmedaf123/SiteNest-sub002/internal/testutil"
)

func TestBookingRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewBookingRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	checkIn := now.AddDate(0, 0, 5)
	checkOut := now.AddDate(0, 0, 8)

	seedRequest := func(t *testing.T, ctx context.Context) domain.BookingRequest {
		t.Helper()
		apartmentID := testutil.InsertApartment(t, ctx, pool, "714", 2)
		holdID := testutil.InsertHold(t, ctx, pool, domain.Hold{
			ApartmentID: apartmentID,
			UserID:      "user-1",
			CheckIn:     checkIn,
			CheckOut:    checkOut,
			Status:      domain.HoldStatusActive,
			ExpiresAt:   now.Add(45 * time.Minute),
		})
		req := domain.BookingRequest{
			ID:          uuid.NewString(),
			UserID:      "user-1",
			ApartmentID: apartmentID,
			RoomNumber:  "714",
			CheckIn:     checkIn,
			CheckOut:    checkOut,
			GuestCount:  2,
			Status:      domain.RequestStatusPending,
			HoldID:      holdID,
			RequestDate: now,
		}
		if err := repo.CreateRequest(ctx, req); err != nil {
			t.Fatalf("create request: %v", err)
		}
		return req
	}

	t.Run("CreateRequest persists and GetRequest returns it", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		req := seedRequest(t, ctx)

		got, err := repo.GetRequest(ctx, req.ID)
		if err != nil {
			t.Fatalf("get request: %v", err)
		}
		if got.Status != domain.RequestStatusPending || got.HoldID != req.HoldID {
			t.Fatalf("unexpected request: %+v", got)
		}
		if got.PaymentReceived {
			t.Fatal("expected payment_received false on a pending request")
		}
		if got.ConfirmedAt != nil {
			t.Fatal("expected confirmed_at to be unset")
		}

		if _, err := repo.GetRequest(ctx, "00000000-0000-0000-0000-000000000001"); err != domain.ErrRequestNotFound {
			t.Fatalf("expected ErrRequestNotFound, got %v", err)
		}
		if _, err := repo.GetRequest(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("MarkRequestConfirmed records amount and timestamp once", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		req := seedRequest(t, ctx)
		amount := decimal.RequireFromString("360.00")

		if err := repo.MarkRequestConfirmed(ctx, req.ID, amount, now); err != nil {
			t.Fatalf("mark confirmed: %v", err)
		}

		got, err := repo.GetRequest(ctx, req.ID)
		if err != nil {
			t.Fatalf("get request: %v", err)
		}
		if got.Status != domain.RequestStatusConfirmed {
			t.Fatalf("expected confirmed, got %s", got.Status)
		}
		if !got.ConfirmationAmount.Equal(amount) {
			t.Fatalf("expected amount %s, got %s", amount, got.ConfirmationAmount)
		}
		if !got.PaymentReceived || got.ConfirmedAt == nil {
			t.Fatalf("expected payment recorded: %+v", got)
		}

		// Not pending anymore, so a second confirm must not apply.
		if err := repo.MarkRequestConfirmed(ctx, req.ID, amount, now); err != domain.ErrRequestNotFound {
			t.Fatalf("expected ErrRequestNotFound on repeat, got %v", err)
		}
	})

	t.Run("SetRequestStatus is conditional", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		req := seedRequest(t, ctx)

		changed, err := repo.SetRequestStatus(ctx, req.ID, domain.RequestStatusPending, domain.RequestStatusCancelled)
		if err != nil {
			t.Fatalf("set status: %v", err)
		}
		if !changed {
			t.Fatal("expected transition to apply")
		}

		changed, err = repo.SetRequestStatus(ctx, req.ID, domain.RequestStatusPending, domain.RequestStatusConfirmed)
		if err != nil {
			t.Fatalf("set status: %v", err)
		}
		if changed {
			t.Fatal("expected stale transition to be a no-op")
		}
	})

	t.Run("CreateBooking persists and GetBooking returns it", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		req := seedRequest(t, ctx)

		booking := domain.Booking{
			ID:               uuid.NewString(),
			BookingRequestID: req.ID,
			ApartmentID:      req.ApartmentID,
			CheckIn:          checkIn,
			CheckOut:         checkOut,
			Amount:           decimal.RequireFromString("360.00"),
			CreatedAt:        now,
		}
		if err := repo.CreateBooking(ctx, booking); err != nil {
			t.Fatalf("create booking: %v", err)
		}

		got, err := repo.GetBooking(ctx, booking.ID)
		if err != nil {
			t.Fatalf("get booking: %v", err)
		}
		if got.BookingRequestID != req.ID || !got.Amount.Equal(booking.Amount) {
			t.Fatalf("unexpected booking: %+v", got)
		}

		if _, err := repo.GetBooking(ctx, "00000000-0000-0000-0000-000000000001"); err != domain.ErrBookingNotFound {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})
}
