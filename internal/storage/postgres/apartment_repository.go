package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

type ApartmentRepository struct {
	pool *pgxpool.Pool
}

func NewApartmentRepository(pool *pgxpool.Pool) *ApartmentRepository {
	return &ApartmentRepository{pool: pool}
}

func (r *ApartmentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ApartmentRepository) CreateApartment(ctx context.Context, apartment domain.Apartment) error {
	const stmt = `
INSERT INTO apartments (id, room_number, bedrooms, price)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt, apartment.ID, apartment.RoomNumber, apartment.Bedrooms, apartment.Price)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRoomNumberTaken
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create apartment: %w", err)
	}
	return nil
}

func (r *ApartmentRepository) GetApartment(ctx context.Context, apartmentID string) (domain.Apartment, error) {
	const query = `SELECT id, room_number, bedrooms, price FROM apartments WHERE id = $1`
	return r.scanApartment(r.queryRow(ctx, query, apartmentID))
}

func (r *ApartmentRepository) GetApartmentForUpdate(ctx context.Context, apartmentID string) (domain.Apartment, error) {
	const query = `SELECT id, room_number, bedrooms, price FROM apartments WHERE id = $1 FOR UPDATE`
	return r.scanApartment(r.queryRow(ctx, query, apartmentID))
}

// ListApartments returns the projection in stable listing order.
func (r *ApartmentRepository) ListApartments(ctx context.Context) ([]domain.Apartment, error) {
	const query = `SELECT id, room_number, bedrooms, price FROM apartments ORDER BY room_number`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	defer rows.Close()

	var out []domain.Apartment
	for rows.Next() {
		var a domain.Apartment
		if err := rows.Scan(&a.ID, &a.RoomNumber, &a.Bedrooms, &a.Price); err != nil {
			return nil, fmt.Errorf("scan apartment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate apartments: %w", err)
	}
	return out, nil
}

func (r *ApartmentRepository) scanApartment(row pgx.Row) (domain.Apartment, error) {
	var a domain.Apartment
	err := row.Scan(&a.ID, &a.RoomNumber, &a.Bedrooms, &a.Price)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Apartment{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Apartment{}, domain.ErrApartmentNotFound
		}
		return domain.Apartment{}, fmt.Errorf("get apartment: %w", err)
	}
	return a, nil
}

func (r *ApartmentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ApartmentRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *ApartmentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
