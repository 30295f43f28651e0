package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
	"github.com/insureadmin/admin-console/internal/core/service"
	"github.com/insureadmin/admin-console/internal/infrastructure/storage"
)

type staticTokens string

func (s staticTokens) AuthHeader() string { return string(s) }

type countingInvalidator struct{ n atomic.Int32 }

func (c *countingInvalidator) InvalidateSession(context.Context, string) { c.n.Add(1) }

func newTestClient(t *testing.T, h http.HandlerFunc, tokens ports.TokenSource, inv ports.SessionInvalidator) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/api/", Tokens: tokens, Invalidator: inv, Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ListAgents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/agents" || r.URL.Query().Get("page") != "2" {
			t.Errorf("unexpected request: %s", r.URL)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header: %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing request id")
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"current_page":2,"last_page":3,
			"data":[{"id":4,"first_name":"Ana","last_name":"Reyes","status":"pending","phone":null}],
			"links":[{"url":null,"label":"&laquo; Previous","active":false},{"url":"http://x/admin/agents?page=2","label":"2","active":true}]}}`))
	}, staticTokens("Bearer tok"), nil)

	page, err := c.ListAgents(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListAgents: %v", err)
	}
	if page.CurrentPage != 2 || len(page.Data) != 1 || page.Data[0].Status != domain.AgentPending {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Links[0].URL != nil {
		t.Fatalf("expected null url to decode as nil")
	}
}

func TestClient_FailsFastWithoutToken(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) { hits.Add(1) }, staticTokens(""), nil)

	if _, err := c.DeleteAgent(context.Background(), 1); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no request")
	}
}

func TestClient_UnauthorizedInvalidatesSession(t *testing.T) {
	inv := &countingInvalidator{}
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Unauthenticated."})
	}, staticTokens("Bearer tok"), inv)

	_, err := c.ListTransactions(context.Background(), 1)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Unauthenticated." {
		t.Fatalf("expected APIError with message, got %v", err)
	}
	if inv.n.Load() != 1 {
		t.Fatalf("expected one invalidation, got %d", inv.n.Load())
	}
}

func TestClient_LoginRejectionDoesNotInvalidate(t *testing.T) {
	inv := &countingInvalidator{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must not send a token")
		}
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Invalid credentials"})
	}, staticTokens("Bearer stale"), inv)

	_, err := c.Login(context.Background(), ports.Credentials{Email: "a@b.co", Password: "x"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if inv.n.Load() != 0 {
		t.Fatalf("login failure must not invalidate the session")
	}
}

func TestClient_ServerErrorIsRemote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, staticTokens("Bearer tok"), nil)

	if _, err := c.ActivateAgent(context.Background(), 3); !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
}

func TestClient_MutationBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/auth/activate-account":
			if body["user_id"] != float64(9) {
				t.Errorf("unexpected activate body: %v", body)
			}
		case r.Method == http.MethodPut && r.URL.Path == "/api/admin/agents/9":
			if body["designation"] != "Agent" || body["first_name"] != "Jo" {
				t.Errorf("unexpected update body: %v", body)
			}
		case r.Method == http.MethodPost && r.URL.Path == "/api/transactions/search":
			if body["keyword"] != "PRP-1" {
				t.Errorf("unexpected search body: %v", body)
			}
			_, _ = w.Write([]byte(`{"success":true,"data":{"data":[{"id":1,"amount":"1500.5"}]}}`))
			return
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, domain.MutationResult{Success: true})
	}, staticTokens("Bearer tok"), nil)
	ctx := context.Background()

	if res, err := c.ActivateAgent(ctx, 9); err != nil || !res.Success {
		t.Fatalf("ActivateAgent: %v %+v", err, res)
	}
	upd := domain.AgentUpdate{FirstName: "Jo", LastName: "Cruz", Designation: domain.DefaultDesignation}
	if _, err := c.UpdateAgent(ctx, 9, upd); err != nil {
		t.Fatalf("UpdateAgent: %v", err)
	}
	page, err := c.SearchTransactions(ctx, "PRP-1")
	if err != nil {
		t.Fatalf("SearchTransactions: %v", err)
	}
	if page.Data[0].Amount.Cents() != 150050 {
		t.Fatalf("unexpected amount: %v", page.Data[0].Amount)
	}
}

func TestClient_401ClearsPersistedSession(t *testing.T) {
	ctx := context.Background()
	medium := storage.NewMemoryMedium()
	store := storage.NewStore(medium, nil, zerolog.Nop())
	session := service.NewSessionManager(ctx, store, "", zerolog.Nop())
	session.SetToken(ctx, "tok", "Bearer")
	guard := service.NewSessionGuard(session, nil, zerolog.Nop())

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, session, guard)

	if _, err := c.SearchAgents(ctx, "ana"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	reloaded := service.NewSessionManager(ctx, store, "", zerolog.Nop())
	if reloaded.Snapshot().IsAuthenticated {
		t.Fatalf("expected persisted session cleared")
	}
}
