package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/service"
)

// TicketHandler exposes the public catalog plus the vendor's own listing
// management.
type TicketHandler struct {
	tickets *service.TicketService
}

func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// List handles GET /v1/tickets. Query parameters: from, to, type, sort.
func (h *TicketHandler) List(c echo.Context) error {
	f := model.TicketFilter{
		From:          c.QueryParam("from"),
		To:            c.QueryParam("to"),
		TransportType: c.QueryParam("type"),
		Sort:          c.QueryParam("sort"),
	}
	ts, err := h.tickets.ListPublic(c.Request().Context(), f)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, ts)
}

// Get handles GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	t, err := h.tickets.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Advertised handles GET /v1/tickets/advertised.
func (h *TicketHandler) Advertised(c echo.Context) error {
	ts, err := h.tickets.Advertised(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, ts)
}

// Latest handles GET /v1/tickets/latest?limit=n (default 8).
func (h *TicketHandler) Latest(c echo.Context) error {
	n, _ := strconv.Atoi(c.QueryParam("limit"))
	ts, err := h.tickets.Latest(c.Request().Context(), n)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, ts)
}

// Add handles POST /v1/vendor/tickets.
func (h *TicketHandler) Add(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	var in service.TicketInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, err := h.tickets.Add(c.Request().Context(), cl, in)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Mine handles GET /v1/vendor/tickets.
func (h *TicketHandler) Mine(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	ts, err := h.tickets.ListVendor(c.Request().Context(), cl)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, ts)
}

// Update handles PATCH /v1/vendor/tickets/:id. The patch type only binds
// the vendor-editable fields; ownership and verification fields sent by a
// client are silently dropped during binding.
func (h *TicketHandler) Update(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var p model.TicketPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, err := h.tickets.Update(c.Request().Context(), cl, id, p)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /v1/vendor/tickets/:id.
func (h *TicketHandler) Delete(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	if err := h.tickets.Delete(c.Request().Context(), cl, id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
