package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "adminconsole:storage:"

// SessionMedium stores persisted console state in Redis so several console
// hosts can share one operator session. Values never expire; logout removes
// them.
type SessionMedium struct {
	client redis.Cmdable
}

func NewSessionMedium(client redis.Cmdable) *SessionMedium {
	return &SessionMedium{client: client}
}

func (m *SessionMedium) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := m.client.Get(ctx, sessionPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (m *SessionMedium) Set(ctx context.Context, key, value string) error {
	if err := m.client.Set(ctx, sessionPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (m *SessionMedium) Remove(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, sessionPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
