package adminapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

// Login posts the credentials to /admin/login. Rejected credentials come
// back as domain.ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*domain.LoginResponse, error) {
	var out domain.LoginResponse
	err := c.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/admin/login",
		body:   creds,
	}, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusUnprocessableEntity, http.StatusForbidden:
			msg := apiErr.Message
			if msg == "" {
				msg = domain.ErrInvalidCredentials.Error()
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, msg)
		}
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{
		op:     "logout",
		method: http.MethodPost,
		path:   "/admin/logout",
		auth:   true,
	}, nil)
}
