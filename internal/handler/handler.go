// Package handler contains the HTTP layer: thin echo handlers that bind
// input, call one service method, and translate sentinel errors to
// status codes. No business rules live here.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-market/internal/auth"
	"github.com/iliyamo/transit-ticket-market/internal/middleware"
	"github.com/iliyamo/transit-ticket-market/internal/status"
)

// httpError maps a service error to the API's status-code contract and
// renders the standard error envelope. Unknown errors become opaque 500s
// so internals never leak to clients.
func httpError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, status.ErrUnauthenticated):
		code, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, status.ErrForbidden):
		code, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, status.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, status.ErrInvalidArgument),
		errors.Is(err, status.ErrInvalidState),
		errors.Is(err, status.ErrInsufficientInventory),
		errors.Is(err, status.ErrSeatConflict),
		errors.Is(err, status.ErrCapacityExceeded),
		errors.Is(err, status.ErrPaymentNotCompleted):
		code, msg = http.StatusBadRequest, err.Error()
	}
	return c.JSON(code, echo.Map{"error": msg})
}

// claims pulls the verified token claims out of the context. Routes
// reaching a handler without JWTAuth in front are a wiring bug; the 401
// keeps the failure visible instead of panicking.
func claims(c echo.Context) (auth.Claims, error) {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return auth.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return cl, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}
