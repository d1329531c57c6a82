package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/cankorkmaz/city-hotel-garage/internal/service"
)

// AuthHandler exposes registration, login, token refresh and account
// maintenance endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	req, ok, err := bindJSON[service.RegisterRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.auth.Register(c.Request().Context(), req))
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	req, ok, err := bindJSON[service.LoginRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.auth.Login(c.Request().Context(), req))
}

// Refresh handles POST /v1/auth/refresh. The route is public: the access
// token it consumes may already be expired, so the JWT middleware cannot
// guard it.
func (h *AuthHandler) Refresh(c echo.Context) error {
	req, ok, err := bindJSON[service.RefreshRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.auth.RefreshToken(c.Request().Context(), req))
}

// Logout handles POST /v1/auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok, err := authUserID(c)
	if !ok {
		return err
	}
	return respond(c, h.auth.Logout(c.Request().Context(), userID))
}

// ChangePassword handles POST /v1/auth/change-password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, ok, err := authUserID(c)
	if !ok {
		return err
	}
	req, ok, err := bindJSON[service.ChangePasswordRequest](c)
	if !ok {
		return err
	}
	return respond(c, h.auth.ChangePassword(c.Request().Context(), userID, req))
}

// Profile handles GET /v1/auth/profile.
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, ok, err := authUserID(c)
	if !ok {
		return err
	}
	return respond(c, h.auth.GetProfile(c.Request().Context(), userID))
}
