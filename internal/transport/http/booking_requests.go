package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AHmedaf123/SiteNest-sub002/internal/app"
	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

// BookingCoordinator is the minimal interface the booking-request
// endpoints need.
type BookingCoordinator interface {
	Submit(ctx context.Context, in app.SubmitInput) (domain.BookingRequest, error)
	Confirm(ctx context.Context, requestID string, amount decimal.Decimal) (domain.BookingRequest, error)
	Cancel(ctx context.Context, requestID string) (domain.BookingRequest, error)
	Get(ctx context.Context, requestID string) (domain.BookingRequest, error)
}

// HandleSubmitRequest returns an HTTP handler for submitting booking
// requests.
func HandleSubmitRequest(svc BookingCoordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req submitRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		in, ok := req.toInput(w)
		if !ok {
			return
		}

		result, err := svc.Submit(r.Context(), in)
		if err != nil {
			writeBookingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(requestJSON(result))
	}
}

// HandleBookingRequest routes /booking-requests/{id} and its confirm
// and cancel actions.
func HandleBookingRequest(svc BookingCoordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, action, ok := parseRequestPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			getRequest(w, r, svc, requestID)
		case action == "confirm" && r.Method == http.MethodPost:
			confirmRequest(w, r, svc, requestID)
		case action == "cancel" && r.Method == http.MethodPost:
			cancelRequest(w, r, svc, requestID)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func getRequest(w http.ResponseWriter, r *http.Request, svc BookingCoordinator, requestID string) {
	result, err := svc.Get(r.Context(), requestID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(requestJSON(result))
}

func confirmRequest(w http.ResponseWriter, r *http.Request, svc BookingCoordinator, requestID string) {
	var req confirmRequestBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.ConfirmationAmount)
	if err != nil || amount.IsNegative() {
		writeError(w, http.StatusBadRequest, codeInvalidPrice, "confirmation_amount must be a non-negative decimal")
		return
	}

	result, err := svc.Confirm(r.Context(), requestID, amount)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(requestJSON(result))
}

func cancelRequest(w http.ResponseWriter, r *http.Request, svc BookingCoordinator, requestID string) {
	result, err := svc.Cancel(r.Context(), requestID)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(requestJSON(result))
}

func writeBookingError(w http.ResponseWriter, err error) {
	var notAvailable *domain.NotAvailableError
	if errors.As(err, &notAvailable) {
		code := codeRoomNotAvailable
		if errors.Is(notAvailable.Err, domain.ErrSlotNoLongerAvailable) {
			code = codeSlotNoLongerAvailable
		}
		writeErrorWithAlternatives(w, http.StatusConflict, code, notAvailable.Error(), apartmentsJSON(notAvailable.Alternatives))
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, codeInvalidRange, err.Error())
	case errors.Is(err, domain.ErrInvalidGuestCount):
		writeError(w, http.StatusBadRequest, codeInvalidGuestCount, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrApartmentNotFound):
		writeError(w, http.StatusNotFound, codeApartmentNotFound, err.Error())
	case errors.Is(err, domain.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, codeBookingRequestNotFound, err.Error())
	case errors.Is(err, domain.ErrHoldNotFound):
		writeError(w, http.StatusNotFound, codeHoldNotFound, err.Error())
	case errors.Is(err, domain.ErrHoldExpired):
		writeError(w, http.StatusConflict, codeHoldExpired, err.Error())
	case errors.Is(err, domain.ErrHoldAlreadyConfirmed):
		writeError(w, http.StatusConflict, codeHoldAlreadyConfirmed, err.Error())
	case errors.Is(err, domain.ErrHoldCancelled):
		writeError(w, http.StatusConflict, codeHoldCancelled, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseRequestPath(path string) (requestID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "booking-requests" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	if parts[2] != "confirm" && parts[2] != "cancel" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

type submitRequest struct {
	UserID      string `json:"user_id"`
	ApartmentID string `json:"apartment_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	GuestCount  int    `json:"guest_count"`
}

func (r submitRequest) toInput(w http.ResponseWriter) (app.SubmitInput, bool) {
	if r.UserID == "" || r.ApartmentID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "user_id and apartment_id are required")
		return app.SubmitInput{}, false
	}
	checkIn, okIn := parseDate(r.CheckIn)
	checkOut, okOut := parseDate(r.CheckOut)
	if !okIn || !okOut {
		writeError(w, http.StatusBadRequest, codeInvalidDate, "check_in and check_out must be YYYY-MM-DD")
		return app.SubmitInput{}, false
	}
	if r.GuestCount < 1 {
		writeError(w, http.StatusBadRequest, codeInvalidGuestCount, domain.ErrInvalidGuestCount.Error())
		return app.SubmitInput{}, false
	}
	return app.SubmitInput{
		UserID:      r.UserID,
		ApartmentID: r.ApartmentID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		GuestCount:  r.GuestCount,
	}, true
}

type confirmRequestBody struct {
	ConfirmationAmount string `json:"confirmation_amount"`
}

type bookingRequestResponse struct {
	ID                 string `json:"id"`
	UserID             string `json:"user_id"`
	ApartmentID        string `json:"apartment_id"`
	RoomNumber         string `json:"room_number"`
	CheckIn            string `json:"check_in"`
	CheckOut           string `json:"check_out"`
	GuestCount         int    `json:"guest_count"`
	Status             string `json:"status"`
	HoldID             string `json:"hold_id"`
	ConfirmationAmount string `json:"confirmation_amount,omitempty"`
	PaymentReceived    bool   `json:"payment_received"`
	RequestDate        string `json:"request_date"`
	ConfirmedAt        string `json:"confirmed_at,omitempty"`
}

func requestJSON(req domain.BookingRequest) bookingRequestResponse {
	resp := bookingRequestResponse{
		ID:              req.ID,
		UserID:          req.UserID,
		ApartmentID:     req.ApartmentID,
		RoomNumber:      req.RoomNumber,
		CheckIn:         formatDate(req.CheckIn),
		CheckOut:        formatDate(req.CheckOut),
		GuestCount:      req.GuestCount,
		Status:          string(req.Status),
		HoldID:          req.HoldID,
		PaymentReceived: req.PaymentReceived,
		RequestDate:     req.RequestDate.Format(time.RFC3339),
	}
	if req.Status == domain.RequestStatusConfirmed {
		resp.ConfirmationAmount = req.ConfirmationAmount.StringFixed(2)
	}
	if req.ConfirmedAt != nil {
		resp.ConfirmedAt = req.ConfirmedAt.Format(time.RFC3339)
	}
	return resp
}
