package service

import (
	"context"
	"sync"
	"time"

	"github.com/insureadmin/admin-console/internal/core/ports"
)

// LocalMutationGuard is the in-process ports.MutationGuard used when no
// Redis instance is configured.
type LocalMutationGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

var _ ports.MutationGuard = (*LocalMutationGuard)(nil)

func NewLocalMutationGuard() *LocalMutationGuard {
	return &LocalMutationGuard{held: make(map[string]time.Time), now: time.Now}
}

func (g *LocalMutationGuard) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if exp, ok := g.held[key]; ok && now.Before(exp) {
		return false, nil
	}
	g.held[key] = now.Add(ttl)
	return true, nil
}

func (g *LocalMutationGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}
