package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleChecker matches a role against the signed-in user.
type RoleChecker interface {
	HasRole(role string) bool
}

// RequireRole lets the request through when the user holds any of roles.
// Role and designation both count as a match.
func RequireRole(checker RoleChecker, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, r := range roles {
				if checker.HasRole(r) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
