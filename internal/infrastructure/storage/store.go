// Package storage implements the session persistence layer: an optional
// encryption wrapper over a string key/value medium.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/api/metrics"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

// Store implements ports.PersistentStore.
//
// With a nil medium every operation is a no-op and Get reports absent; this
// is the mode for processes that must not touch durable storage. With a nil
// cipher values pass through in plaintext.
type Store struct {
	medium ports.Medium
	cipher Cipher
	log    zerolog.Logger
}

// NewStore wraps medium. Both medium and cipher may be nil.
func NewStore(medium ports.Medium, cipher Cipher, log zerolog.Logger) *Store {
	return &Store{medium: medium, cipher: cipher, log: log}
}

// Encrypted reports whether values are sealed before writing.
func (s *Store) Encrypted() bool { return s.cipher != nil }

// Get reads and, when configured, decrypts key. Read and decryption
// failures are logged and reported as absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	if s.medium == nil {
		return "", false
	}
	raw, ok, err := s.medium.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("storage read failed")
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	if s.cipher == nil {
		return raw, true
	}
	plain, err := s.cipher.Open(raw)
	if err != nil {
		metrics.StorageDecryptFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("key", key).Msg("failed to decrypt storage item")
		return "", false
	}
	return plain, true
}

// Set encrypts (when configured) and writes value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.medium == nil {
		return nil
	}
	if s.cipher != nil {
		sealed, err := s.cipher.Seal(value)
		if err != nil {
			return fmt.Errorf("storage set %s: %w", key, err)
		}
		value = sealed
	}
	if err := s.medium.Set(ctx, key, value); err != nil {
		return fmt.Errorf("storage set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if s.medium == nil {
		return nil
	}
	if err := s.medium.Remove(ctx, key); err != nil {
		return fmt.Errorf("storage remove %s: %w", key, err)
	}
	return nil
}
