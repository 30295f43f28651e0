package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/api/metrics"
	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

// SessionGuard is the single place a rejected session is handled. The API
// client's interceptor calls InvalidateSession on every 401; the guard
// clears the persisted session, shows the expiry notice once, and fires the
// registered re-login hooks.
type SessionGuard struct {
	session  *SessionManager
	notifier ports.Notifier
	log      zerolog.Logger

	mu    sync.Mutex
	hooks []func(reason string)
}

// NewSessionGuard returns a guard over session.
func NewSessionGuard(session *SessionManager, notifier ports.Notifier, log zerolog.Logger) *SessionGuard {
	return &SessionGuard{session: session, notifier: notifier, log: log}
}

// OnInvalidated registers a hook that runs after the session is cleared,
// e.g. to send the operator back to the login entry point.
func (g *SessionGuard) OnInvalidated(hook func(reason string)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = append(g.hooks, hook)
}

// InvalidateSession implements ports.SessionInvalidator. Concurrent 401s
// for the same session produce a single notice.
func (g *SessionGuard) InvalidateSession(ctx context.Context, reason string) {
	wasAuthenticated := g.session.Purge(ctx)
	if !wasAuthenticated {
		return
	}

	metrics.SessionInvalidationsTotal.Inc()
	g.log.Warn().Str("reason", reason).Msg("session expired")
	if g.notifier != nil {
		g.notifier.Notify(domain.Warn(domain.MsgSessionExpired))
	}

	g.mu.Lock()
	hooks := append([]func(string){}, g.hooks...)
	g.mu.Unlock()
	for _, h := range hooks {
		h(reason)
	}
}
