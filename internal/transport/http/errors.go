package http

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	codeMethodNotAllowed       = "method_not_allowed"
	codeNotFound               = "not_found"
	codeInvalidRequestBody     = "invalid_request_body"
	codeInvalidDate            = "invalid_date"
	codeInvalidRange           = "invalid_range"
	codeInvalidGuestCount      = "invalid_guest_count"
	codeInvalidID              = "invalid_id"
	codeApartmentNotFound      = "apartment_not_found"
	codeRoomNumberRequired     = "room_number_required"
	codeRoomNumberTaken        = "room_number_taken"
	codeInvalidBedrooms        = "invalid_bedrooms"
	codeInvalidPrice           = "invalid_price"
	codeRoomNotAvailable       = "room_not_available"
	codeSlotNoLongerAvailable  = "slot_no_longer_available"
	codeHoldNotFound           = "hold_not_found"
	codeHoldExpired            = "hold_expired"
	codeHoldAlreadyConfirmed   = "hold_already_confirmed"
	codeHoldCancelled          = "hold_cancelled"
	codeBookingRequestNotFound = "booking_request_not_found"
	codeBookingNotFound        = "booking_not_found"
	codeForbidden              = "forbidden"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error        string          `json:"error"`
	Code         string          `json:"code"`
	Alternatives []apartmentJSON `json:"alternatives,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorWithAlternatives(w, status, code, msg, nil)
}

func writeErrorWithAlternatives(w http.ResponseWriter, status int, code, msg string, alternatives []apartmentJSON) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error:        msg,
		Code:         code,
		Alternatives: alternatives,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

const dateLayout = "2006-01-02"

// parseDate reads a YYYY-MM-DD value as UTC midnight.
func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
