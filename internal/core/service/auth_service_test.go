package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

func TestAuthService_Login_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"bad email", "not-an-email", "pw", domain.MsgInvalidEmail},
		{"empty email", "", "pw", domain.MsgInvalidEmail},
		{"empty password", "ana@example.com", "", domain.MsgPasswordRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &stubAdminAPI{}
			m, _ := newTestSession(t)
			svc := NewAuthService(api, m, zerolog.Nop())

			_, err := svc.Login(context.Background(), tt.email, tt.password)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Message != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
			if api.calls.Load() != 0 {
				t.Fatalf("expected no remote call")
			}
		})
	}
}

func TestAuthService_Login_StoresSession(t *testing.T) {
	api := &stubAdminAPI{
		loginFn: func(_ context.Context, creds ports.Credentials) (*domain.LoginResponse, error) {
			if creds.Email != "ana@example.com" || creds.Password != "pw" {
				t.Errorf("unexpected credentials: %+v", creds)
			}
			return loginResponse("tok-9"), nil
		},
	}
	m, _ := newTestSession(t)
	svc := NewAuthService(api, m, zerolog.Nop())

	user, err := svc.Login(context.Background(), " ana@example.com ", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if h, ok := m.GetAuthToken(); !ok || h != "Bearer tok-9" {
		t.Fatalf("unexpected auth token: %q", h)
	}
}

func TestAuthService_Login_Rejected(t *testing.T) {
	api := &stubAdminAPI{
		loginFn: func(context.Context, ports.Credentials) (*domain.LoginResponse, error) {
			return &domain.LoginResponse{Success: false, Message: "Invalid credentials"}, nil
		},
	}
	m, _ := newTestSession(t)
	svc := NewAuthService(api, m, zerolog.Nop())

	if _, err := svc.Login(context.Background(), "ana@example.com", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if m.IsTokenValid() {
		t.Fatalf("session must stay logged out")
	}
}

func TestAuthService_Logout_ClearsLocallyWhenRemoteFails(t *testing.T) {
	api := &stubAdminAPI{
		logoutFn: func(context.Context) error { return domain.ErrRemote },
	}
	m := newLoggedInSession(t)
	NewAuthService(api, m, zerolog.Nop()).Logout(context.Background())

	if api.calls.Load() != 1 {
		t.Fatalf("expected remote logout attempt")
	}
	if !m.Snapshot().Equal(domain.SessionState{}) {
		t.Fatalf("expected initial state after logout")
	}
}

func TestDescribeToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-side-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	info, ok := DescribeToken(tok)
	if !ok {
		t.Fatalf("expected JWT to decode")
	}
	if info.Subject != "42" || info.ExpiresAt == nil || !info.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected info: %+v", info)
	}

	if _, ok := DescribeToken("12|opaque-sanctum-token"); ok {
		t.Fatalf("expected opaque token to be undecodable")
	}
}
