package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-ticket-market/internal/service"
)

// AuthHandler exposes login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

// Login handles POST /v1/auth/login. The identity provider has already
// verified the email; this endpoint materializes the account and returns
// a bearer token. First login and registration look identical.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Name, req.PhotoURL)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u, "token": token})
}

// Me handles GET /v1/me.
func (h *AuthHandler) Me(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	u, err := h.auth.Profile(c.Request().Context(), cl)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

// UpdateMe handles PATCH /v1/me.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	cl, err := claims(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u, err := h.auth.UpdateProfile(c.Request().Context(), cl, req.Name, req.PhotoURL)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
