package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

// DefaultSessionKey is the storage key holding the persisted session.
const DefaultSessionKey = "admin-auth-storage"

// persistedSession is the stored envelope: {"state": {...}, "version": 0}.
type persistedSession struct {
	State   domain.SessionState `json:"state"`
	Version int                 `json:"version"`
}

const persistVersion = 0

// SessionManager owns the authentication state. Every mutating action is
// written through to the persistent store before it returns, so a restarted
// process sees the session before it issues any remote call.
type SessionManager struct {
	mu        sync.Mutex
	state     domain.SessionState
	store     ports.PersistentStore
	key       string
	log       zerolog.Logger
	listeners map[int]ports.SessionListener
	nextID    int
}

// NewSessionManager restores the session persisted under key (or
// DefaultSessionKey when empty). A missing, unreadable, or undecryptable
// entry yields the initial unauthenticated state.
func NewSessionManager(ctx context.Context, store ports.PersistentStore, key string, log zerolog.Logger) *SessionManager {
	if key == "" {
		key = DefaultSessionKey
	}
	m := &SessionManager{
		store:     store,
		key:       key,
		log:       log,
		listeners: make(map[int]ports.SessionListener),
	}
	m.state = m.hydrate(ctx)
	return m
}

func (m *SessionManager) hydrate(ctx context.Context) domain.SessionState {
	raw, ok := m.store.Get(ctx, m.key)
	if !ok {
		return domain.SessionState{}
	}
	var p persistedSession
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		m.log.Warn().Err(err).Str("key", m.key).Msg("discarding unreadable persisted session")
		return domain.SessionState{}
	}
	st := p.State
	if st.AccessToken != nil && *st.AccessToken == "" {
		st.AccessToken = nil
	}
	st.IsAuthenticated = st.AccessToken != nil
	return st
}

// Snapshot returns a copy of the current state.
func (m *SessionManager) Snapshot() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Subscribe registers l for every committed change and returns a function
// that removes it. Listeners run after the change is persisted, outside the
// manager's lock.
func (m *SessionManager) Subscribe(l ports.SessionListener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Login stores the token, token type, and user of a successful login.
func (m *SessionManager) Login(ctx context.Context, resp *domain.LoginResponse) {
	token := resp.Data.AccessToken
	tokenType := resp.Data.TokenType
	user := resp.Data.User
	m.mutate(ctx, func(s *domain.SessionState) bool {
		*s = domain.SessionState{
			IsAuthenticated: true,
			AccessToken:     &token,
			TokenType:       &tokenType,
			User:            &user,
		}
		return true
	})
}

// Logout resets every field to the initial state.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mutate(ctx, func(s *domain.SessionState) bool {
		*s = domain.SessionState{}
		return true
	})
}

// Purge resets the state and removes the persisted entry entirely. It
// reports whether the session was authenticated before the call.
func (m *SessionManager) Purge(ctx context.Context) bool {
	m.mu.Lock()
	prev := m.state.Clone()
	m.state = domain.SessionState{}
	if err := m.store.Remove(ctx, m.key); err != nil {
		m.log.Error().Err(err).Str("key", m.key).Msg("failed to remove persisted session")
	}
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.notify(listeners, prev, domain.SessionState{})
	return prev.IsAuthenticated
}

// SetToken replaces the token pair; the session is authenticated iff token
// is non-empty.
func (m *SessionManager) SetToken(ctx context.Context, token, tokenType string) {
	m.mutate(ctx, func(s *domain.SessionState) bool {
		s.AccessToken = nil
		if token != "" {
			s.AccessToken = &token
		}
		s.TokenType = &tokenType
		s.IsAuthenticated = token != ""
		return true
	})
}

// ClearToken drops the token pair and the authenticated flag, keeping the user.
func (m *SessionManager) ClearToken(ctx context.Context) {
	m.mutate(ctx, func(s *domain.SessionState) bool {
		s.AccessToken = nil
		s.TokenType = nil
		s.IsAuthenticated = false
		return true
	})
}

// SetUser replaces the user profile.
func (m *SessionManager) SetUser(ctx context.Context, user domain.UserProfile) {
	m.mutate(ctx, func(s *domain.SessionState) bool {
		s.User = &user
		return true
	})
}

// UpdateUser shallow-merges up into the current user. It is a no-op, and
// returns false, when no user is set.
func (m *SessionManager) UpdateUser(ctx context.Context, up domain.UserUpdate) bool {
	return m.mutate(ctx, func(s *domain.SessionState) bool {
		if s.User == nil {
			return false
		}
		merged := up.Apply(*s.User)
		s.User = &merged
		return true
	})
}

// ClearUser drops the user profile, keeping the token.
func (m *SessionManager) ClearUser(ctx context.Context) {
	m.mutate(ctx, func(s *domain.SessionState) bool {
		s.User = nil
		return true
	})
}

// GetAuthToken returns "{tokenType} {accessToken}", or false when either
// part is missing.
func (m *SessionManager) GetAuthToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := domain.BearerHeader(m.state.Type(), m.state.Token())
	return h, h != ""
}

// AuthHeader implements ports.TokenSource. A token stored without a type is
// sent with the Bearer scheme.
func (m *SessionManager) AuthHeader() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := m.state.Token()
	if token == "" {
		return ""
	}
	if h := domain.BearerHeader(m.state.Type(), token); h != "" {
		return h
	}
	return "Bearer " + token
}

// IsTokenValid reports whether the session is authenticated and holds a
// token. Expiry is enforced by the server only.
func (m *SessionManager) IsTokenValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsAuthenticated && m.state.Token() != ""
}

// HasRole matches role against the user's role or designation.
func (m *SessionManager) HasRole(role string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.state.User
	if u == nil {
		return false
	}
	return u.Role == role || u.Designation == role
}

// mutate applies fn under the lock, persists the result, and notifies
// listeners. fn returns false to abort without any side effect.
func (m *SessionManager) mutate(ctx context.Context, fn func(*domain.SessionState) bool) bool {
	m.mu.Lock()
	prev := m.state.Clone()
	next := m.state.Clone()
	if !fn(&next) {
		m.mu.Unlock()
		return false
	}
	m.state = next
	m.persist(ctx)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.notify(listeners, prev, next.Clone())
	return true
}

// persist must be called with mu held so writes land in mutation order.
func (m *SessionManager) persist(ctx context.Context) {
	raw, err := json.Marshal(persistedSession{State: m.state, Version: persistVersion})
	if err != nil {
		m.log.Error().Err(err).Msg("failed to encode session")
		return
	}
	if err := m.store.Set(ctx, m.key, string(raw)); err != nil {
		m.log.Error().Err(err).Str("key", m.key).Msg("failed to persist session")
	}
}

func (m *SessionManager) snapshotListeners() []ports.SessionListener {
	out := make([]ports.SessionListener, 0, len(m.listeners))
	for _, l := range m.listeners {
		out = append(out, l)
	}
	return out
}

func (m *SessionManager) notify(listeners []ports.SessionListener, prev, next domain.SessionState) {
	for _, l := range listeners {
		l(prev, next)
	}
}
