package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homequest/realty-api/internal/api/metrics"
	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type createRentBookingRequest struct {
	PropertyID      string     `json:"property_id" validate:"required"`
	StartDate       time.Time  `json:"start_date" validate:"required"`
	EndDate         *time.Time `json:"end_date"`
	MonthlyRent     float64    `json:"monthly_rent" validate:"omitempty,gt=0"`
	SecurityDeposit float64    `json:"security_deposit" validate:"omitempty,gte=0"`
}

// CreateRent handles POST /v1/bookings/rent.
//
// @Summary      Request a whole-property tenancy
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRentBookingRequest  true  "Booking request"
// @Success      201   {object}  domain.RentBooking
// @Failure      409   {object}  map[string]string
// @Router       /v1/bookings/rent [post]
func (h *BookingHandler) CreateRent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createRentBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.CreateRent(c.Request().Context(), actor, ports.CreateRentBookingInput{
		PropertyID:      req.PropertyID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
	})
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("rent").Inc()
	return c.JSON(http.StatusCreated, booking)
}

type createPgBookingRequest struct {
	BedID           string     `json:"bed_id" validate:"required"`
	StartDate       time.Time  `json:"start_date" validate:"required"`
	EndDate         *time.Time `json:"end_date"`
	MonthlyRent     float64    `json:"monthly_rent" validate:"omitempty,gt=0"`
	SecurityDeposit float64    `json:"security_deposit" validate:"omitempty,gte=0"`
}

// CreatePg handles POST /v1/bookings/pg.
func (h *BookingHandler) CreatePg(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPgBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.CreatePg(c.Request().Context(), actor, ports.CreatePgBookingInput{
		BedID:           req.BedID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
	})
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("pg").Inc()
	return c.JSON(http.StatusCreated, booking)
}

type approveBookingRequest struct {
	Message              string  `json:"message"`
	FinalMonthlyRent     float64 `json:"final_monthly_rent" validate:"omitempty,gt=0"`
	FinalSecurityDeposit float64 `json:"final_security_deposit" validate:"omitempty,gte=0"`
}

// ApproveRent handles POST /v1/bookings/rent/:id/approve.
//
// @Summary      Approve a pending rent booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Booking ID"
// @Param        body  body      approveBookingRequest  true  "Final terms"
// @Success      200   {object}  domain.RentBooking
// @Failure      422   {object}  map[string]string
// @Router       /v1/bookings/rent/{id}/approve [post]
func (h *BookingHandler) ApproveRent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req approveBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.ApproveRent(c.Request().Context(), actor, ports.ApproveBookingInput{
		BookingID:            c.Param("id"),
		Message:              req.Message,
		FinalMonthlyRent:     req.FinalMonthlyRent,
		FinalSecurityDeposit: req.FinalSecurityDeposit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// ApprovePg handles POST /v1/bookings/pg/:id/approve.
func (h *BookingHandler) ApprovePg(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req approveBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.ApprovePg(c.Request().Context(), actor, ports.ApproveBookingInput{
		BookingID:            c.Param("id"),
		Message:              req.Message,
		FinalMonthlyRent:     req.FinalMonthlyRent,
		FinalSecurityDeposit: req.FinalSecurityDeposit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// RejectRent handles POST /v1/bookings/rent/:id/reject.
func (h *BookingHandler) RejectRent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req reasonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	booking, err := h.service.RejectRent(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

type cancelBookingRequest struct {
	Reason        string `json:"reason"`
	RefundDeposit bool   `json:"refund_deposit"`
}

// Cancel handles POST /v1/bookings/:id/cancel for both booking kinds.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req cancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.service.Cancel(c.Request().Context(), actor, c.Param("id"), req.Reason, req.RefundDeposit); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TerminateRent handles POST /v1/bookings/rent/:id/terminate.
func (h *BookingHandler) TerminateRent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req reasonRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	booking, err := h.service.TerminateRent(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// PayMonthlyRent handles POST /v1/payments/:id/pay.
//
// @Summary      Settle a monthly rent obligation from the wallet
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  domain.MonthlyPayment
// @Failure      422  {object}  map[string]string
// @Router       /v1/payments/{id}/pay [post]
func (h *BookingHandler) PayMonthlyRent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	payment, err := h.service.PayMonthlyRent(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

type bookingsResponse struct {
	RentBookings []*domain.RentBooking `json:"rent_bookings"`
	PgBookings   []*domain.PgBooking   `json:"pg_bookings"`
}

// ListMine handles GET /v1/bookings/my.
func (h *BookingHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingsResponse{RentBookings: result.RentBookings, PgBookings: result.PgBookings})
}

// ListOwned handles GET /v1/bookings/owned.
func (h *BookingHandler) ListOwned(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListOwned(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingsResponse{RentBookings: result.RentBookings, PgBookings: result.PgBookings})
}

// PendingApprovals handles GET /v1/bookings/pending.
func (h *BookingHandler) PendingApprovals(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.PendingApprovals(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingsResponse{RentBookings: result.RentBookings, PgBookings: result.PgBookings})
}

// MyPayments handles GET /v1/payments/my.
func (h *BookingHandler) MyPayments(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	payments, err := h.service.MyPayments(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}
