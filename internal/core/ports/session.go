package ports

import (
	"context"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

// TokenSource hands the current bearer credentials to outgoing calls.
type TokenSource interface {
	// AuthHeader returns the Authorization header value, or "" when the
	// session holds no token.
	AuthHeader() string
}

// SessionInvalidator is told when the remote API rejected the session
// (HTTP 401). Implementations clear the session and signal a re-login.
type SessionInvalidator interface {
	InvalidateSession(ctx context.Context, reason string)
}

// SessionListener observes every committed session change.
type SessionListener func(prev, next domain.SessionState)
