package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

// IntervalRepository is the single source of truth for what blocks an
// apartment's calendar. No caching layer sits in front of it.
type IntervalRepository struct {
	pool *pgxpool.Pool
}

func NewIntervalRepository(pool *pgxpool.Pool) *IntervalRepository {
	return &IntervalRepository{pool: pool}
}

func (r *IntervalRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *IntervalRepository) Insert(ctx context.Context, iv domain.Interval) error {
	const stmt = `
INSERT INTO intervals (id, apartment_id, kind, starts_at, ends_at, hold_id, booking_id, expires_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)`

	var expiresAt *time.Time
	if !iv.ExpiresAt.IsZero() {
		expiresAt = &iv.ExpiresAt
	}
	_, err := r.exec(ctx, stmt,
		iv.ID,
		iv.ApartmentID,
		iv.Kind,
		iv.StartsAt,
		iv.EndsAt,
		iv.HoldID,
		iv.BookingID,
		expiresAt,
	)
	if err != nil {
		// The exclusion constraint on confirmed rows is the database's
		// last line of defense against double-booking.
		if isExclusionViolation(err) {
			return domain.ErrSlotNoLongerAvailable
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert interval: %w", err)
	}
	return nil
}

func (r *IntervalRepository) Remove(ctx context.Context, intervalID string) error {
	const stmt = `DELETE FROM intervals WHERE id = $1`
	if _, err := r.exec(ctx, stmt, intervalID); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("remove interval: %w", err)
	}
	return nil
}

func (r *IntervalRepository) RemoveByHold(ctx context.Context, holdID string) error {
	const stmt = `DELETE FROM intervals WHERE hold_id = $1`
	if _, err := r.exec(ctx, stmt, holdID); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("remove interval by hold: %w", err)
	}
	return nil
}

func (r *IntervalRepository) RemoveByBooking(ctx context.Context, bookingID string) error {
	const stmt = `DELETE FROM intervals WHERE booking_id = $1`
	if _, err := r.exec(ctx, stmt, bookingID); err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("remove interval by booking: %w", err)
	}
	return nil
}

// Overlapping returns intervals intersecting [start, end), using the
// half-open test starts_at < end AND start < ends_at.
func (r *IntervalRepository) Overlapping(ctx context.Context, apartmentID string, start, end time.Time) ([]domain.Interval, error) {
	const query = `
SELECT id, apartment_id, kind, starts_at, ends_at, hold_id, booking_id, expires_at
FROM intervals
WHERE apartment_id = $1 AND starts_at < $3 AND $2 < ends_at
ORDER BY starts_at`

	return r.queryIntervals(ctx, query, apartmentID, start, end)
}

func (r *IntervalRepository) ListByApartment(ctx context.Context, apartmentID string) ([]domain.Interval, error) {
	const query = `
SELECT id, apartment_id, kind, starts_at, ends_at, hold_id, booking_id, expires_at
FROM intervals
WHERE apartment_id = $1
ORDER BY starts_at`

	return r.queryIntervals(ctx, query, apartmentID)
}

func (r *IntervalRepository) queryIntervals(ctx context.Context, query string, args ...any) ([]domain.Interval, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("query intervals: %w", err)
	}
	defer rows.Close()

	var out []domain.Interval
	for rows.Next() {
		var (
			iv        domain.Interval
			holdID    sql.NullString
			bookingID sql.NullString
			expiresAt sql.NullTime
		)
		if err := rows.Scan(&iv.ID, &iv.ApartmentID, &iv.Kind, &iv.StartsAt, &iv.EndsAt, &holdID, &bookingID, &expiresAt); err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		iv.HoldID = holdID.String
		iv.BookingID = bookingID.String
		if expiresAt.Valid {
			iv.ExpiresAt = expiresAt.Time
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate intervals: %w", err)
	}
	return out, nil
}

func (r *IntervalRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *IntervalRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
