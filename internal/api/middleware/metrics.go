package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/insureadmin/admin-console/internal/api/metrics"
)

// Metrics counts every request by method, route template, and final status.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				// Let the error handler write the response first so the
				// recorded status is the one the client sees.
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestsTotal.WithLabelValues(
				c.Request().Method, route, strconv.Itoa(c.Response().Status),
			).Inc()
			return nil
		}
	}
}
