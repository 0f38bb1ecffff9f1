package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-market/internal/service"
)

// AdminHandler groups the moderation endpoints: ticket verification and
// advertisement, user administration and the global booking overview.
type AdminHandler struct {
	tickets  *service.TicketService
	bookings *service.BookingService
	users    *service.UserService
}

func NewAdminHandler(tickets *service.TicketService, bookings *service.BookingService, users *service.UserService) *AdminHandler {
	return &AdminHandler{tickets: tickets, bookings: bookings, users: users}
}

// Tickets handles GET /v1/admin/tickets.
func (h *AdminHandler) Tickets(c echo.Context) error {
	ts, err := h.tickets.ListAll(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, ts)
}

// ApproveTicket handles POST /v1/admin/tickets/:id/approve.
func (h *AdminHandler) ApproveTicket(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	if err := h.tickets.Approve(c.Request().Context(), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// RejectTicket handles POST /v1/admin/tickets/:id/reject.
func (h *AdminHandler) RejectTicket(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	if err := h.tickets.Reject(c.Request().Context(), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// ToggleAdvertise handles POST /v1/admin/tickets/:id/advertise. The
// response carries the slot's new state.
func (h *AdminHandler) ToggleAdvertise(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	on, err := h.tickets.ToggleAdvertise(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"is_advertised": on})
}

// Bookings handles GET /v1/admin/bookings.
func (h *AdminHandler) Bookings(c echo.Context) error {
	bs, err := h.bookings.ListAll(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, bs)
}

// Users handles GET /v1/admin/users.
func (h *AdminHandler) Users(c echo.Context) error {
	us, err := h.users.List(c.Request().Context())
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, us)
}

// User handles GET /v1/admin/users/:id.
func (h *AdminHandler) User(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	u, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

type roleRequest struct {
	Role string `json:"role"`
}

// UpdateRole handles PATCH /v1/admin/users/:id/role.
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.users.UpdateRole(c.Request().Context(), id, req.Role); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// MarkFraud handles POST /v1/admin/users/:id/fraud.
func (h *AdminHandler) MarkFraud(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	if err := h.users.MarkFraud(c.Request().Context(), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// ClearFraud handles DELETE /v1/admin/users/:id/fraud.
func (h *AdminHandler) ClearFraud(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return badID(c)
	}
	if err := h.users.ClearFraud(c.Request().Context(), id); err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
