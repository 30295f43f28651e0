package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

// AuthService implements login and logout against the remote API.
type AuthService struct {
	api      ports.AdminAPI
	session  *SessionManager
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthService(api ports.AdminAPI, session *SessionManager, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		session:  session,
		validate: validator.New(),
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// Login validates the credentials, authenticates, and stores the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.UserProfile, error) {
	creds := ports.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := s.validateCredentials(creds); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !resp.Success || resp.Data.AccessToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = domain.ErrInvalidCredentials.Error()
		}
		return nil, fmt.Errorf("login: %w: %s", domain.ErrInvalidCredentials, msg)
	}

	s.session.Login(ctx, resp)
	s.log.Info().Str("email", creds.Email).Msg("logged in")
	user := resp.Data.User
	return &user, nil
}

// Logout tells the server the token is done with, then clears the local
// session whatever the server said.
func (s *AuthService) Logout(ctx context.Context) {
	if s.session.IsTokenValid() {
		if err := s.api.Logout(ctx); err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed")
		}
	}
	s.session.Logout(ctx)
}

func (s *AuthService) validateCredentials(creds ports.Credentials) error {
	err := s.validate.Struct(creds)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Email":
		return &domain.ValidationError{Field: "email", Message: domain.MsgInvalidEmail}
	default:
		return &domain.ValidationError{Field: "password", Message: domain.MsgPasswordRequired}
	}
}

// TokenInfo is what can be read from the bearer token without verifying it.
type TokenInfo struct {
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// DescribeToken decodes the claims of a JWT bearer token for display. The
// signature is not checked and expiry is not enforced here; the server
// decides. Opaque tokens yield ok=false.
func DescribeToken(token string) (TokenInfo, bool) {
	if token == "" {
		return TokenInfo{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, false
	}
	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, true
}
