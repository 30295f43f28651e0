package ports

import "github.com/insureadmin/admin-console/internal/core/domain"

// Notifier shows operator-facing notices.
type Notifier interface {
	Notify(n domain.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(domain.Notice)

func (f NotifierFunc) Notify(n domain.Notice) { f(n) }
