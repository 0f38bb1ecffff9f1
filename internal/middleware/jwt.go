// Package middleware holds the reusable request processing wrapped around
// the API routes: bearer-token authentication, role gates, the Redis
// token-bucket limiter and the public-listing response cache.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-market/internal/auth"
)

// claimsKey is the echo context key the verified claims are stored under.
const claimsKey = "claims"

// JWTAuth returns a middleware that validates the Bearer token and stores
// the verified claims in the request context for handlers to read via
// ClaimsFrom. Requests without a valid token are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := auth.Verify(secret, strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom extracts the verified claims placed by JWTAuth. The boolean
// is false on routes that were not wrapped with JWTAuth.
func ClaimsFrom(c echo.Context) (auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return auth.Claims{}, false
	}
	return *claims, true
}
