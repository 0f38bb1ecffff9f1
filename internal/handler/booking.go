package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-market/internal/auth"
	"github.com/iliyamo/transit-ticket-market/internal/service"
)

// BookingHandler exposes the booking state machine to users and vendors.
type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, err := h.bookings.Create(c.Request().Context(), cl, in)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// Mine handles GET /v1/bookings.
func (h *BookingHandler) Mine(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	bs, err := h.bookings.ListForUser(c.Request().Context(), cl)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, bs)
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	b, err := h.bookings.Get(c.Request().Context(), cl, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Cancel(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	if err := h.bookings.Cancel(c.Request().Context(), cl, id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// VendorList handles GET /v1/vendor/bookings.
func (h *BookingHandler) VendorList(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	bs, err := h.bookings.ListForVendor(c.Request().Context(), cl)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, bs)
}

// Accept handles POST /v1/vendor/bookings/:id/accept.
func (h *BookingHandler) Accept(c echo.Context) error {
	return h.decide(c, h.bookings.Accept)
}

// Reject handles POST /v1/vendor/bookings/:id/reject.
func (h *BookingHandler) Reject(c echo.Context) error {
	return h.decide(c, h.bookings.Reject)
}

func (h *BookingHandler) decide(c echo.Context, fn func(context.Context, auth.Claims, uint64) error) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	if err := fn(c.Request().Context(), cl, id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
