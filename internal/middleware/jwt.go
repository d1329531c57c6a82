// Package middleware provides reusable HTTP middleware for protected routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth and read by handlers and RequireRole.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

type authError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JWTAuth validates a Bearer access token and injects user_id, username and
// role into the request context. Expiry is enforced here; expired tokens only
// pass through the dedicated refresh endpoint, which parses them itself.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The Authorization header must carry "Bearer <token>".
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, authError{Message: "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			// Parse and verify in one step. The key callback also pins the
			// signing method to HMAC so an attacker cannot downgrade to
			// "none" or swap in an asymmetric algorithm.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, authError{Message: "invalid or expired token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, authError{Message: "invalid token claims"})
			}

			// JSON numbers decode as float64; uid is converted back to the
			// integer id the handlers expect.
			username, _ := claims["sub"].(string)
			role, _ := claims["role"].(string)
			uid, _ := claims["uid"].(float64)
			if username == "" || uid <= 0 {
				return c.JSON(http.StatusUnauthorized, authError{Message: "invalid token claims"})
			}

			// Stash the identity for downstream middleware and handlers.
			c.Set(CtxUserID, uint64(uid))
			c.Set(CtxUsername, username)
			c.Set(CtxRole, role)
			return next(c)
		}
	}
}
