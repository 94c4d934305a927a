package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

// AvailabilityChecker is the minimal interface needed to answer
// availability queries.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, apartmentID string, checkIn, checkOut time.Time) (bool, error)
	FindAvailable(ctx context.Context, checkIn, checkOut time.Time, guestCount int) ([]domain.Apartment, error)
}

// HandleCheckAvailability returns an HTTP handler for single-apartment
// availability checks.
func HandleCheckAvailability(svc AvailabilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		apartmentID := r.URL.Query().Get("apartment_id")
		if apartmentID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "apartment_id is required")
			return
		}
		checkIn, checkOut, ok := parseRange(w, r)
		if !ok {
			return
		}

		available, err := svc.CheckAvailability(r.Context(), apartmentID, checkIn, checkOut)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrApartmentNotFound):
				writeError(w, http.StatusNotFound, codeApartmentNotFound, err.Error())
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(availabilityResponse{
			ApartmentID: apartmentID,
			CheckIn:     formatDate(checkIn),
			CheckOut:    formatDate(checkOut),
			Available:   available,
		})
	}
}

// HandleSearchAvailable returns an HTTP handler that lists apartments
// free for a range, optionally filtered by guest count.
func HandleSearchAvailable(svc AvailabilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		checkIn, checkOut, ok := parseRange(w, r)
		if !ok {
			return
		}
		guests := 0
		if raw := r.URL.Query().Get("guests"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, codeInvalidGuestCount, "guests must be a positive number")
				return
			}
			guests = n
		}

		apartments, err := svc.FindAvailable(r.Context(), checkIn, checkOut, guests)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(searchResponse{
			CheckIn:    formatDate(checkIn),
			CheckOut:   formatDate(checkOut),
			Apartments: apartmentsJSON(apartments),
		})
	}
}

func parseRange(w http.ResponseWriter, r *http.Request) (checkIn, checkOut time.Time, ok bool) {
	checkIn, okIn := parseDate(r.URL.Query().Get("check_in"))
	checkOut, okOut := parseDate(r.URL.Query().Get("check_out"))
	if !okIn || !okOut {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "check_in and check_out must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	if !checkOut.After(checkIn) {
		writeError(w, http.StatusBadRequest, codeInvalidRange, domain.ErrInvalidRange.Error())
		return time.Time{}, time.Time{}, false
	}
	return checkIn, checkOut, true
}

type availabilityResponse struct {
	ApartmentID string `json:"apartment_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	Available   bool   `json:"available"`
}

type searchResponse struct {
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	Apartments []apartmentJSON `json:"apartments"`
}

type apartmentJSON struct {
	ID         string `json:"id"`
	RoomNumber string `json:"room_number"`
	Bedrooms   int    `json:"bedrooms"`
	Price      string `json:"price"`
}

func apartmentsJSON(apartments []domain.Apartment) []apartmentJSON {
	out := make([]apartmentJSON, 0, len(apartments))
	for _, a := range apartments {
		out = append(out, apartmentJSON{
			ID:         a.ID,
			RoomNumber: a.RoomNumber,
			Bedrooms:   a.Bedrooms,
			Price:      a.Price.StringFixed(2),
		})
	}
	return out
}
