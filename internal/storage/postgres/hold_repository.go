package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

type HoldRepository struct {
	pool *pgxpool.Pool
}

func NewHoldRepository(pool *pgxpool.Pool) *HoldRepository {
	return &HoldRepository{pool: pool}
}

func (r *HoldRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const holdColumns = `id, apartment_id, user_id, check_in, check_out, status, expires_at, created_at, updated_at`

func (r *HoldRepository) CreateHold(ctx context.Context, hold domain.Hold) error {
	const stmt = `
INSERT INTO holds (id, apartment_id, user_id, check_in, check_out, status, expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		hold.ID,
		hold.ApartmentID,
		hold.UserID,
		hold.CheckIn,
		hold.CheckOut,
		hold.Status,
		hold.ExpiresAt,
		hold.CreatedAt,
		hold.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create hold: %w", err)
	}
	return nil
}

func (r *HoldRepository) GetHold(ctx context.Context, holdID string) (domain.Hold, error) {
	const query = `SELECT ` + holdColumns + ` FROM holds WHERE id = $1`
	return r.scanHold(r.queryRow(ctx, query, holdID))
}

func (r *HoldRepository) GetHoldForUpdate(ctx context.Context, holdID string) (domain.Hold, error) {
	const query = `SELECT ` + holdColumns + ` FROM holds WHERE id = $1 FOR UPDATE`
	return r.scanHold(r.queryRow(ctx, query, holdID))
}

// SetHoldStatus performs the conditional transition that keeps hold
// mutation race-safe under arbitrary interleaving.
func (r *HoldRepository) SetHoldStatus(ctx context.Context, holdID string, from, to domain.HoldStatus, updatedAt time.Time) (bool, error) {
	const stmt = `UPDATE holds SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`

	tag, err := r.exec(ctx, stmt, holdID, from, to, updatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("set hold status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ExpireDue flips active holds past their TTL to expired and returns
// them, oldest first. The WHERE status = 'active' guard makes the
// sweep idempotent and safe across instances.
func (r *HoldRepository) ExpireDue(ctx context.Context, now time.Time, limit int) ([]domain.Hold, error) {
	const stmt = `
UPDATE holds SET status = 'expired', updated_at = $1
WHERE id IN (
	SELECT id FROM holds
	WHERE status = 'active' AND expires_at <= $1
	ORDER BY expires_at
	LIMIT $2
	FOR UPDATE SKIP LOCKED
)
RETURNING ` + holdColumns

	rows, err := r.query(ctx, stmt, now, limit)
	if err != nil {
		return nil, fmt.Errorf("expire due holds: %w", err)
	}
	defer rows.Close()

	var out []domain.Hold
	for rows.Next() {
		hold, err := r.scanHoldRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, hold)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired holds: %w", err)
	}
	return out, nil
}

func (r *HoldRepository) scanHold(row pgx.Row) (domain.Hold, error) {
	var h domain.Hold
	err := row.Scan(&h.ID, &h.ApartmentID, &h.UserID, &h.CheckIn, &h.CheckOut, &h.Status, &h.ExpiresAt, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Hold{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Hold{}, domain.ErrHoldNotFound
		}
		return domain.Hold{}, fmt.Errorf("get hold: %w", err)
	}
	return h, nil
}

func (r *HoldRepository) scanHoldRow(rows pgx.Rows) (domain.Hold, error) {
	var h domain.Hold
	if err := rows.Scan(&h.ID, &h.ApartmentID, &h.UserID, &h.CheckIn, &h.CheckOut, &h.Status, &h.ExpiresAt, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return domain.Hold{}, fmt.Errorf("scan hold: %w", err)
	}
	return h, nil
}

func (r *HoldRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *HoldRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *HoldRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
