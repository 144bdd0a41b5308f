package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces the route's role policy after the gate has run.
// An anonymous request gets 401 (the route needed authentication and
// none was presented); an authenticated request whose role is not in the
// allowed set gets 403.  Which roles a route demands is per-route
// configuration in the router, not a property of this middleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := CurrentRole(c)
			if role == "" {
				return ErrorJSON(c, http.StatusUnauthorized, "authentication required")
			}
			if !allowed[role] {
				return ErrorJSON(c, http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
