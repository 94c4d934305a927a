package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AHmedaf123/SiteNest-sub002/internal/app"
	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

// ApartmentAdmin is the minimal interface for maintaining the listings
// projection.
type ApartmentAdmin interface {
	CreateApartment(ctx context.Context, in app.CreateApartmentInput) (domain.Apartment, error)
	ListApartments(ctx context.Context) ([]domain.Apartment, error)
}

// BookingAdmin cancels confirmed bookings, reopening their dates.
type BookingAdmin interface {
	CancelBooking(ctx context.Context, bookingID string) error
}

// HandleAdminApartments returns an HTTP handler for creating and
// listing apartments.
func HandleAdminApartments(svc ApartmentAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createApartment(w, r, svc)
		case http.MethodGet:
			listApartments(w, r, svc)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func createApartment(w http.ResponseWriter, r *http.Request, svc ApartmentAdmin) {
	var req createApartmentRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	price := decimal.Zero
	if req.Price != "" {
		parsed, err := decimal.NewFromString(req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidPrice, "price must be a decimal")
			return
		}
		price = parsed
	}

	apartment, err := svc.CreateApartment(r.Context(), app.CreateApartmentInput{
		RoomNumber: req.RoomNumber,
		Bedrooms:   req.Bedrooms,
		Price:      price,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNumberRequired):
			writeError(w, http.StatusBadRequest, codeRoomNumberRequired, err.Error())
		case errors.Is(err, domain.ErrInvalidBedrooms):
			writeError(w, http.StatusBadRequest, codeInvalidBedrooms, err.Error())
		case errors.Is(err, domain.ErrInvalidPrice):
			writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
		case errors.Is(err, domain.ErrRoomNumberTaken):
			writeError(w, http.StatusConflict, codeRoomNumberTaken, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(apartmentsJSON([]domain.Apartment{apartment})[0])
}

func listApartments(w http.ResponseWriter, r *http.Request, svc ApartmentAdmin) {
	apartments, err := svc.ListApartments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(apartmentsJSON(apartments))
}

// HandleAdminCancelBooking returns an HTTP handler for administrative
// cancellation of confirmed bookings.
func HandleAdminCancelBooking(svc BookingAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		bookingID, ok := parseCancelBookingPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if err := svc.CancelBooking(r.Context(), bookingID); err != nil {
			switch {
			case errors.Is(err, domain.ErrBookingNotFound):
				writeError(w, http.StatusNotFound, codeBookingNotFound, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func parseCancelBookingPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "bookings" || parts[3] != "cancel" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

type createApartmentRequest struct {
	RoomNumber string `json:"room_number"`
	Bedrooms   int    `json:"bedrooms"`
	Price      string `json:"price"`
}
