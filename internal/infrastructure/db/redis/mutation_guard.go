package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const guardPrefix = "adminconsole:mutation:"

// MutationGuard blocks a second submission of the same mutation while the
// first is in flight, across every console sharing the Redis instance.
// Key format: adminconsole:mutation:<key>
type MutationGuard struct {
	client redis.Cmdable
}

func NewMutationGuard(client redis.Cmdable) *MutationGuard {
	return &MutationGuard{client: client}
}

// Acquire takes the lock for key. The TTL frees it if the holder dies.
func (g *MutationGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, guardPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mutation guard acquire: %w", err)
	}
	return ok, nil
}

func (g *MutationGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, guardPrefix+key).Err(); err != nil {
		return fmt.Errorf("mutation guard release: %w", err)
	}
	return nil
}
