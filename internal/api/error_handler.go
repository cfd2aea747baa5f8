package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserDisabled):
		return http.StatusForbidden, "account disabled"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrPropertyNotFound):
		return http.StatusNotFound, "property not found"
	case errors.Is(err, domain.ErrPropertyUnavailable):
		return http.StatusConflict, "property not available"
	case errors.Is(err, domain.ErrPropertyNoOwner):
		return http.StatusUnprocessableEntity, "property has no assigned owner"
	case errors.Is(err, domain.ErrPropertyClaimed):
		return http.StatusConflict, "property already has an owner"
	case errors.Is(err, domain.ErrBedNotFound):
		return http.StatusNotFound, "bed not found"
	case errors.Is(err, domain.ErrBedOccupied):
		return http.StatusConflict, "bed is already occupied"
	case errors.Is(err, domain.ErrInquiryNotFound):
		return http.StatusNotFound, "inquiry not found"
	case errors.Is(err, domain.ErrDuplicateInquiry):
		return http.StatusConflict, "an active inquiry already exists for this property"
	case errors.Is(err, domain.ErrUnknownStatus):
		return http.StatusBadRequest, "unknown status"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrNotPaymentReady):
		return http.StatusBadRequest, "inquiry is not in payment-ready state"
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, "booking not found"
	case errors.Is(err, domain.ErrBookingNotPending):
		return http.StatusUnprocessableEntity, "booking is not pending approval"
	case errors.Is(err, domain.ErrBookingNotActive):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrBookingConflict):
		return http.StatusConflict, "resource is not available for the requested dates"
	case errors.Is(err, domain.ErrDocumentsNotApproved):
		return http.StatusUnprocessableEntity, "documents must be approved before booking approval"
	case errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound, "payment not found"
	case errors.Is(err, domain.ErrPaymentNotPending):
		return http.StatusUnprocessableEntity, "payment is not pending"
	case errors.Is(err, domain.ErrWalletNotFound):
		return http.StatusNotFound, "wallet not found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, "insufficient wallet balance"
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, "amount must be positive"
	case errors.Is(err, domain.ErrNotificationNotFound):
		return http.StatusNotFound, "notification not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
