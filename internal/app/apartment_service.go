package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

type ApartmentAdminStore interface {
	CreateApartment(ctx context.Context, apartment domain.Apartment) error
	ListApartments(ctx context.Context) ([]domain.Apartment, error)
}

// ApartmentService maintains the read-only listings projection the
// engine resolves availability against. The listings component remains
// the owner of the full records.
type ApartmentService struct {
	repo ApartmentAdminStore
}

func NewApartmentService(repo ApartmentAdminStore) *ApartmentService {
	return &ApartmentService{repo: repo}
}

type CreateApartmentInput struct {
	RoomNumber string
	Bedrooms   int
	Price      decimal.Decimal
}

func (s *ApartmentService) CreateApartment(ctx context.Context, in CreateApartmentInput) (domain.Apartment, error) {
	if in.RoomNumber == "" {
		return domain.Apartment{}, domain.ErrRoomNumberRequired
	}
	if in.Bedrooms <= 0 {
		return domain.Apartment{}, domain.ErrInvalidBedrooms
	}
	if in.Price.IsNegative() {
		return domain.Apartment{}, domain.ErrInvalidPrice
	}

	apartment := domain.Apartment{
		ID:         uuid.NewString(),
		RoomNumber: in.RoomNumber,
		Bedrooms:   in.Bedrooms,
		Price:      in.Price,
	}
	if err := s.repo.CreateApartment(ctx, apartment); err != nil {
		return domain.Apartment{}, err
	}
	return apartment, nil
}

func (s *ApartmentService) ListApartments(ctx context.Context) ([]domain.Apartment, error) {
	return s.repo.ListApartments(ctx)
}
