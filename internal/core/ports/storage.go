package ports

import "context"

// Medium is a durable string key/value store (a file, Redis, Mongo...).
// Get reports ok=false for a missing key.
type Medium interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// PersistentStore is the session persistence contract. Get never fails: an
// unreadable or undecryptable entry is reported as absent.
type PersistentStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
