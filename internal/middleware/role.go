package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole rejects requests whose authenticated role is not in the allowed
// set. It must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	// Build the allow-set once, at registration time.
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A missing or non-string role means JWTAuth did not run or the
			// token carried no role; both are rejected the same way.
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, authError{Message: "insufficient permissions"})
			}
			return next(c)
		}
	}
}
