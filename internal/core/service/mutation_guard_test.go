package service

import (
	"context"
	"testing"
	"time"
)

func TestLocalMutationGuard(t *testing.T) {
	g := NewLocalMutationGuard()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	if ok, _ := g.Acquire(ctx, "agent:1", time.Minute); !ok {
		t.Fatalf("first acquire should succeed")
	}
	if ok, _ := g.Acquire(ctx, "agent:1", time.Minute); ok {
		t.Fatalf("second acquire should be blocked")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := g.Acquire(ctx, "agent:1", time.Minute); !ok {
		t.Fatalf("expired lock should be reacquirable")
	}

	_ = g.Release(ctx, "agent:1")
	if ok, _ := g.Acquire(ctx, "agent:1", time.Minute); !ok {
		t.Fatalf("released lock should be reacquirable")
	}
}
