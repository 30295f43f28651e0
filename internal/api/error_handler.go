package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/api/handler"
	"github.com/insureadmin/admin-console/internal/core/domain"
)

const loginPath = "/login"

// errorResponse is the canonical error envelope for all API errors. Redirect
// is set when the operator must sign in again.
type errorResponse struct {
	Error    string          `json:"error"`
	Redirect string          `json:"redirect,omitempty"`
	Notices  []domain.Notice `json:"notices,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}, plus any
//     operator notice attached by the handler.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		var ne *handler.NoticeError
		if errors.As(err, &ne) {
			resp.Notices = append(resp.Notices, ne.Notice)
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, errorResponse{Error: ve.Message}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized, errorResponse{
			Error:    "session expired",
			Redirect: loginPath,
			Notices:  []domain.Notice{domain.Warn(domain.MsgSessionExpired)},
		}
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "not authenticated", Redirect: loginPath}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrAgentAlreadyActive), errors.Is(err, domain.ErrDuplicateSubmit):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrAgentNotActive):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrEmptyKeyword), errors.Is(err, domain.ErrInvalidPage):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, domain.ErrRemote):
		log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("remote failure")
		return http.StatusBadGateway, errorResponse{Error: "remote service failed"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
