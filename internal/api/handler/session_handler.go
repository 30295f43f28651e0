package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/service"
)

type SessionHandler struct {
	auth    *service.AuthService
	session *service.SessionManager
}

func NewSessionHandler(auth *service.AuthService, session *service.SessionManager) *SessionHandler {
	return &SessionHandler{auth: auth, session: session}
}

// Login authenticates against the remote API and stores the session.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.auth.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.snapshot())
}

// Logout ends the session locally even when the remote call fails.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.auth.Logout(c.Request().Context())
	resp := h.snapshot()
	resp.Notices = notices(domain.Info(domain.MsgLoggedOut))
	return c.JSON(http.StatusOK, resp)
}

// Get returns the current session without the token itself.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.snapshot())
}

func (h *SessionHandler) snapshot() sessionResponse {
	st := h.session.Snapshot()
	resp := sessionResponse{
		IsAuthenticated: st.IsAuthenticated,
		TokenType:       st.Type(),
		User:            st.User,
	}
	if info, ok := service.DescribeToken(st.Token()); ok {
		resp.Subject = info.Subject
		resp.ExpiresAt = info.ExpiresAt
	}
	return resp
}
