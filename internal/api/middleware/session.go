package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

// TokenChecker reports whether a usable session is held.
type TokenChecker interface {
	IsTokenValid() bool
}

// RequireSession is the auth gate for resource routes: without a token the
// request fails with domain.ErrNotAuthenticated, which the error handler
// turns into a 401 pointing at the login page.
func RequireSession(session TokenChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !session.IsTokenValid() {
				return domain.ErrNotAuthenticated
			}
			return next(c)
		}
	}
}
