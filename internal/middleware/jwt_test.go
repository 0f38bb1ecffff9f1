package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/transit-ticket-market/internal/auth"
)

func okHandler(c echo.Context) error {
	claims, _ := ClaimsFrom(c)
	return c.JSON(http.StatusOK, claims)
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, mw(okHandler)(c))
	return rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	token, err := auth.Sign("secret", auth.Claims{UserID: 7, Email: "rider@example.com", Role: "user"}, 7)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth("secret"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec := doRequest(t, JWTAuth("secret"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	token, err := auth.Sign("other", auth.Claims{UserID: 7, Role: "user"}, 7)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth("secret"), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	token, err := auth.Sign("secret", auth.Claims{UserID: 7, Role: "vendor"}, 7)
	require.NoError(t, err)

	chain := func(roles ...string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return JWTAuth("secret")(RequireRole(roles...)(next))
		}
	}

	rec := doRequest(t, chain("vendor"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, chain("admin"), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
