package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homequest/realty-api/internal/core/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /v1/notifications?unread=true.
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	unreadOnly := c.QueryParam("unread") == "true"
	notifications, err := h.service.List(c.Request().Context(), actor, unreadOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

// ListBooking handles GET /v1/notifications/bookings.
func (h *NotificationHandler) ListBooking(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	notifications, err := h.service.ListBooking(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkRead handles PUT /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	notification, err := h.service.MarkRead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notification)
}

// MarkBookingRead handles PUT /v1/notifications/bookings/:id/read.
func (h *NotificationHandler) MarkBookingRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	notification, err := h.service.MarkBookingRead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notification)
}

// UnreadCount handles GET /v1/notifications/unread-count, summed across both
// notification kinds.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	count, err := h.service.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread_count": count})
}
