package ports

import (
	"context"
	"time"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

// AuditRepository persists the mutation audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) error
}

// AuditSink accepts audit entries without blocking the caller.
type AuditSink interface {
	Record(entry domain.AuditEntry)
}

// MutationGuard prevents the same mutation from being submitted twice while
// the first is still in flight.
type MutationGuard interface {
	// Acquire returns false when the key is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
