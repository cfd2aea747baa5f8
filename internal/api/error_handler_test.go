package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
)

func TestHTTPErrorHandlerDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserDisabled, http.StatusForbidden},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrPropertyNotFound, http.StatusNotFound},
		{domain.ErrPropertyClaimed, http.StatusConflict},
		{domain.ErrBedOccupied, http.StatusConflict},
		{domain.ErrDuplicateInquiry, http.StatusConflict},
		{domain.ErrBookingConflict, http.StatusConflict},
		{domain.ErrUnknownStatus, http.StatusBadRequest},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domain.ErrDocumentsNotApproved, http.StatusUnprocessableEntity},
		// Failed-precondition payment errors are client errors, not 422s.
		{domain.ErrNotPaymentReady, http.StatusBadRequest},
		{domain.ErrInsufficientFunds, http.StatusBadRequest},
		{domain.ErrPaymentNotPending, http.StatusUnprocessableEntity},
		{domain.ErrWalletNotFound, http.StatusNotFound},
		// Wrapped errors resolve the same way.
		{fmt.Errorf("%w (from AGREED to PURCHASED)", domain.ErrInvalidTransition), http.StatusUnprocessableEntity},
		// Unknown errors stay generic.
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler(tc.err, c)

		if rec.Code != tc.code {
			t.Errorf("%v: got %d, want %d", tc.err, rec.Code, tc.code)
		}
	}
}

func TestHTTPErrorHandlerEchoError(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), c)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400", rec.Code)
	}
}

func TestHTTPErrorHandlerInternalErrorHidesDetails(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("dial tcp 10.0.0.5:27017: i/o timeout"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); body != `{"error":"internal server error"}`+"\n" {
		t.Errorf("internal details must not leak, got %s", body)
	}
}
