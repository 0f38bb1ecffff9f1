package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-ticket-market/internal/status"
)

func TestHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{status.ErrUnauthenticated, http.StatusUnauthorized},
		{status.ErrForbidden, http.StatusForbidden},
		{status.ErrNotFound, http.StatusNotFound},
		{status.ErrInvalidArgument, http.StatusBadRequest},
		{status.ErrInvalidState, http.StatusBadRequest},
		{status.ErrInsufficientInventory, http.StatusBadRequest},
		{status.ErrSeatConflict, http.StatusBadRequest},
		{status.ErrCapacityExceeded, http.StatusBadRequest},
		{status.ErrPaymentNotCompleted, http.StatusBadRequest},
		{errors.New("sql: connection refused"), http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		require.NoError(t, httpError(c, fmt.Errorf("wrapped: %w", tc.err)))
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

func TestHTTPError_InternalDetailsHidden(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, httpError(c, errors.New("dial tcp 10.0.0.5:3306: timeout")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
