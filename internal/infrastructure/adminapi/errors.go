package adminapi

import (
	"fmt"
	"net/http"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// Unwrap maps 401 to domain.ErrSessionExpired and everything else to
// domain.ErrRemote.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return domain.ErrSessionExpired
	}
	return domain.ErrRemote
}

// errorBody is the error shape the remote API uses.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
