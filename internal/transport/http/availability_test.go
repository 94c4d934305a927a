package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AHmedaf123/SiteNest-sub002/internal/domain"
)

type stubAvailability struct {
	available  bool
	apartments []domain.Apartment
	err        error
}

func (s *stubAvailability) CheckAvailability(_ context.Context, _ string, _, _ time.Time) (bool, error) {
	return s.available, s.err
}

func (s *stubAvailability) FindAvailable(_ context.Context, _, _ time.Time, _ int) ([]domain.Apartment, error) {
	return s.apartments, s.err
}

func TestHandleCheckAvailability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		available      bool
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "available",
			target:         "/availability?apartment_id=apt-1&check_in=2026-03-15&check_out=2026-03-18",
			available:      true,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"available":true`,
		},
		{
			name:           "occupied",
			target:         "/availability?apartment_id=apt-1&check_in=2026-03-15&check_out=2026-03-18",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"available":false`,
		},
		{
			name:           "missing apartment id",
			target:         "/availability?check_in=2026-03-15&check_out=2026-03-18",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed date",
			target:         "/availability?apartment_id=apt-1&check_in=15-03-2026&check_out=2026-03-18",
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_date"`,
		},
		{
			name:           "zero-night range",
			target:         "/availability?apartment_id=apt-1&check_in=2026-03-15&check_out=2026-03-15",
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_range"`,
		},
		{
			name:           "apartment not found",
			target:         "/availability?apartment_id=missing&check_in=2026-03-15&check_out=2026-03-18",
			serviceErr:     domain.ErrApartmentNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal error",
			target:         "/availability?apartment_id=apt-1&check_in=2026-03-15&check_out=2026-03-18",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAvailability{available: tt.available, err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			HandleCheckAvailability(svc).ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedSubstr != "" {
				require.Contains(t, rec.Body.String(), tt.expectedSubstr)
			}
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/availability?apartment_id=apt-1&check_in=2026-03-15&check_out=2026-03-18", nil)
		rec := httptest.NewRecorder()
		HandleCheckAvailability(&stubAvailability{}).ServeHTTP(rec, req)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleSearchAvailable(t *testing.T) {
	t.Parallel()

	apartments := []domain.Apartment{
		{ID: "apt-1", RoomNumber: "714", Bedrooms: 2, Price: decimal.RequireFromString("150.50")},
	}

	t.Run("lists available apartments", func(t *testing.T) {
		t.Parallel()
		svc := &stubAvailability{apartments: apartments}
		req := httptest.NewRequest(http.MethodGet, "/availability/search?check_in=2026-03-15&check_out=2026-03-18&guests=2", nil)
		rec := httptest.NewRecorder()

		HandleSearchAvailable(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"room_number":"714"`)
		require.Contains(t, rec.Body.String(), `"price":"150.50"`)
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		t.Parallel()
		svc := &stubAvailability{}
		req := httptest.NewRequest(http.MethodGet, "/availability/search?check_in=2026-03-15&check_out=2026-03-18", nil)
		rec := httptest.NewRecorder()

		HandleSearchAvailable(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"apartments":[]`)
	})

	t.Run("rejects non-positive guests", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/availability/search?check_in=2026-03-15&check_out=2026-03-18&guests=0", nil)
		rec := httptest.NewRecorder()

		HandleSearchAvailable(&stubAvailability{}).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"code":"invalid_guest_count"`)
	})
}
