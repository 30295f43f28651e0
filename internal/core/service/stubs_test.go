package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
	"github.com/insureadmin/admin-console/internal/infrastructure/storage"
)

type stubAdminAPI struct {
	loginFn              func(ctx context.Context, creds ports.Credentials) (*domain.LoginResponse, error)
	logoutFn             func(ctx context.Context) error
	listAgentsFn         func(ctx context.Context, page int) (*domain.Page[domain.Agent], error)
	searchAgentsFn       func(ctx context.Context, keyword string) (*domain.Page[domain.Agent], error)
	deleteAgentFn        func(ctx context.Context, id int64) (*domain.MutationResult, error)
	activateAgentFn      func(ctx context.Context, id int64) (*domain.MutationResult, error)
	updateAgentFn        func(ctx context.Context, id int64, payload domain.AgentUpdate) (*domain.MutationResult, error)
	listTransactionsFn   func(ctx context.Context, page int) (*domain.Page[domain.Transaction], error)
	searchTransactionsFn func(ctx context.Context, keyword string) (*domain.Page[domain.Transaction], error)

	calls atomic.Int32
}

var errUnexpectedCall = fmt.Errorf("unexpected call")

func (s *stubAdminAPI) Login(ctx context.Context, creds ports.Credentials) (*domain.LoginResponse, error) {
	s.calls.Add(1)
	if s.loginFn == nil {
		return nil, errUnexpectedCall
	}
	return s.loginFn(ctx, creds)
}

func (s *stubAdminAPI) Logout(ctx context.Context) error {
	s.calls.Add(1)
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx)
}

func (s *stubAdminAPI) ListAgents(ctx context.Context, page int) (*domain.Page[domain.Agent], error) {
	s.calls.Add(1)
	if s.listAgentsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listAgentsFn(ctx, page)
}

func (s *stubAdminAPI) SearchAgents(ctx context.Context, keyword string) (*domain.Page[domain.Agent], error) {
	s.calls.Add(1)
	if s.searchAgentsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.searchAgentsFn(ctx, keyword)
}

func (s *stubAdminAPI) DeleteAgent(ctx context.Context, id int64) (*domain.MutationResult, error) {
	s.calls.Add(1)
	if s.deleteAgentFn == nil {
		return nil, errUnexpectedCall
	}
	return s.deleteAgentFn(ctx, id)
}

func (s *stubAdminAPI) ActivateAgent(ctx context.Context, id int64) (*domain.MutationResult, error) {
	s.calls.Add(1)
	if s.activateAgentFn == nil {
		return nil, errUnexpectedCall
	}
	return s.activateAgentFn(ctx, id)
}

func (s *stubAdminAPI) UpdateAgent(ctx context.Context, id int64, payload domain.AgentUpdate) (*domain.MutationResult, error) {
	s.calls.Add(1)
	if s.updateAgentFn == nil {
		return nil, errUnexpectedCall
	}
	return s.updateAgentFn(ctx, id, payload)
}

func (s *stubAdminAPI) ListTransactions(ctx context.Context, page int) (*domain.Page[domain.Transaction], error) {
	s.calls.Add(1)
	if s.listTransactionsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listTransactionsFn(ctx, page)
}

func (s *stubAdminAPI) SearchTransactions(ctx context.Context, keyword string) (*domain.Page[domain.Transaction], error) {
	s.calls.Add(1)
	if s.searchTransactionsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.searchTransactionsFn(ctx, keyword)
}

type stubGuard struct {
	mu   sync.Mutex
	held map[string]bool
}

func newStubGuard() *stubGuard { return &stubGuard{held: make(map[string]bool)} }

func (g *stubGuard) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}

type stubAuditSink struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (s *stubAuditSink) Record(e domain.AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

type noticeRecorder struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (r *noticeRecorder) Notify(n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *noticeRecorder) all() []domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notice(nil), r.notices...)
}

func strPtr(s string) *string { return &s }

func newTestSession(t *testing.T) (*SessionManager, *storage.MemoryMedium) {
	t.Helper()
	medium := storage.NewMemoryMedium()
	store := storage.NewStore(medium, nil, zerolog.Nop())
	return NewSessionManager(context.Background(), store, "", zerolog.Nop()), medium
}

func loginResponse(token string) *domain.LoginResponse {
	return &domain.LoginResponse{
		Success: true,
		Data: domain.LoginResult{
			AccessToken: token,
			TokenType:   "Bearer",
			User: domain.UserProfile{
				ID:    1,
				Name:  "Ana Reyes",
				Email: "ana@example.com",
				Role:  "admin",
			},
		},
	}
}

func newLoggedInSession(t *testing.T) *SessionManager {
	t.Helper()
	m, _ := newTestSession(t)
	m.Login(context.Background(), loginResponse("tok-1"))
	return m
}

// agentsPage builds a page whose links mark page active out of last pages.
func agentsPage(page, last int, agents ...domain.Agent) *domain.Page[domain.Agent] {
	links := []domain.PaginationLink{{Label: "&laquo; Previous"}}
	for i := 1; i <= last; i++ {
		links = append(links, domain.PaginationLink{
			URL:    strPtr(fmt.Sprintf("https://api.example.com/admin/agents?page=%d", i)),
			Label:  fmt.Sprintf("%d", i),
			Active: i == page,
		})
	}
	links = append(links, domain.PaginationLink{Label: "Next &raquo;"})
	return &domain.Page[domain.Agent]{CurrentPage: page, LastPage: last, Data: agents, Links: links}
}
