package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const requestColumns = `id, user_id, apartment_id, room_number, check_in, check_out, guest_count,
status, hold_id, confirmation_amount, payment_received, admin_notes, request_date, confirmed_at`

func (r *BookingRepository) CreateRequest(ctx context.Context, req domain.BookingRequest) error {
	const stmt = `
INSERT INTO booking_requests (id, user_id, apartment_id, room_number, check_in, check_out,
	guest_count, status, hold_id, payment_received, admin_notes, request_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		req.ID,
		req.UserID,
		req.ApartmentID,
		req.RoomNumber,
		req.CheckIn,
		req.CheckOut,
		req.GuestCount,
		req.Status,
		req.HoldID,
		req.PaymentReceived,
		req.AdminNotes,
		req.RequestDate,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create booking request: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetRequest(ctx context.Context, requestID string) (domain.BookingRequest, error) {
	const query = `SELECT ` + requestColumns + ` FROM booking_requests WHERE id = $1`
	return r.scanRequest(r.queryRow(ctx, query, requestID))
}

func (r *BookingRepository) GetRequestForUpdate(ctx context.Context, requestID string) (domain.BookingRequest, error) {
	const query = `SELECT ` + requestColumns + ` FROM booking_requests WHERE id = $1 FOR UPDATE`
	return r.scanRequest(r.queryRow(ctx, query, requestID))
}

func (r *BookingRepository) SetRequestStatus(ctx context.Context, requestID string, from, to domain.RequestStatus) (bool, error) {
	const stmt = `UPDATE booking_requests SET status = $3 WHERE id = $1 AND status = $2`

	tag, err := r.exec(ctx, stmt, requestID, from, to)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("set request status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookingRepository) MarkRequestConfirmed(ctx context.Context, requestID string, amount decimal.Decimal, confirmedAt time.Time) error {
	const stmt = `
UPDATE booking_requests
SET status = 'confirmed', confirmation_amount = $2, payment_received = TRUE, confirmed_at = $3
WHERE id = $1 AND status = 'pending'`

	tag, err := r.exec(ctx, stmt, requestID, amount, confirmedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("confirm booking request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking domain.Booking) error {
	const stmt = `
INSERT INTO bookings (id, booking_request_id, apartment_id, check_in, check_out, amount, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt,
		booking.ID,
		booking.BookingRequestID,
		booking.ApartmentID,
		booking.CheckIn,
		booking.CheckOut,
		booking.Amount,
		booking.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, bookingID string) (domain.Booking, error) {
	const query = `
SELECT id, booking_request_id, apartment_id, check_in, check_out, amount, created_at
FROM bookings
WHERE id = $1`

	var b domain.Booking
	err := r.queryRow(ctx, query, bookingID).
		Scan(&b.ID, &b.BookingRequestID, &b.ApartmentID, &b.CheckIn, &b.CheckOut, &b.Amount, &b.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Booking{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) scanRequest(row pgx.Row) (domain.BookingRequest, error) {
	var (
		req         domain.BookingRequest
		amount      decimal.NullDecimal
		confirmedAt sql.NullTime
	)
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.ApartmentID,
		&req.RoomNumber,
		&req.CheckIn,
		&req.CheckOut,
		&req.GuestCount,
		&req.Status,
		&req.HoldID,
		&amount,
		&req.PaymentReceived,
		&req.AdminNotes,
		&req.RequestDate,
		&confirmedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.BookingRequest{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.BookingRequest{}, domain.ErrRequestNotFound
		}
		return domain.BookingRequest{}, fmt.Errorf("get booking request: %w", err)
	}
	if amount.Valid {
		req.ConfirmationAmount = amount.Decimal
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		req.ConfirmedAt = &t
	}
	return req, nil
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
