package ports

import (
	"context"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminAPI is the remote admin HTTP API. Every method except Login sends
// the session's bearer token and fails with domain.ErrNotAuthenticated
// before any network call when no token is held.
type AdminAPI interface {
	Login(ctx context.Context, creds Credentials) (*domain.LoginResponse, error)
	Logout(ctx context.Context) error

	ListAgents(ctx context.Context, page int) (*domain.Page[domain.Agent], error)
	SearchAgents(ctx context.Context, keyword string) (*domain.Page[domain.Agent], error)
	DeleteAgent(ctx context.Context, id int64) (*domain.MutationResult, error)
	ActivateAgent(ctx context.Context, id int64) (*domain.MutationResult, error)
	UpdateAgent(ctx context.Context, id int64, payload domain.AgentUpdate) (*domain.MutationResult, error)

	ListTransactions(ctx context.Context, page int) (*domain.Page[domain.Transaction], error)
	SearchTransactions(ctx context.Context, keyword string) (*domain.Page[domain.Transaction], error)
}
