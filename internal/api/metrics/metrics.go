// Package metrics defines and registers all custom Prometheus metrics for the
// admin console. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed by the BFF at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "admin_console"

// ── Remote API metrics ────────────────────────────────────────────────────────

// RemoteRequestsTotal counts calls to the remote admin API.
// Labels:
//   - op: the API operation (e.g. "list_agents", "activate_agent")
//   - outcome: "ok", "unauthorized", "error"
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of remote admin API calls, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// RemoteRequestDuration measures remote call latency.
// Label:
//   - op: the API operation
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of remote admin API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Query layer metrics ───────────────────────────────────────────────────────

// QueryDedupTotal counts query executions by whether they joined an
// in-flight request for the same key.
// Label:
//   - result: "shared" (joined an in-flight call) or "leader" (issued the call)
var QueryDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_dedup_total",
		Help:      "Total number of query executions, labelled by dedup result (shared/leader).",
	},
	[]string{"result"},
)

// QueryStaleDiscardedTotal counts responses dropped because a newer response
// for the same key had already been stored.
var QueryStaleDiscardedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_stale_discarded_total",
		Help:      "Total number of superseded query responses discarded.",
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionInvalidationsTotal counts sessions cleared after a 401.
var SessionInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_invalidations_total",
		Help:      "Total number of sessions invalidated by a 401 from the remote API.",
	},
)

// StorageDecryptFailuresTotal counts persisted entries that could not be
// decrypted and were treated as absent.
var StorageDecryptFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_decrypt_failures_total",
		Help:      "Total number of persisted session entries that failed to decrypt.",
	},
)

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationsTotal counts confirmed agent mutations.
// Labels:
//   - action: "delete", "activate", "update"
//   - outcome: "ok", "error", "rejected" (client-side rule), "duplicate"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of agent mutations, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// AuditQueueDepth tracks the current number of audit entries waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── BFF metrics ───────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts BFF requests.
// Labels:
//   - method: HTTP method
//   - route: the registered echo route (e.g. "/agents/:id")
//   - code: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of BFF HTTP requests.",
	},
	[]string{"method", "route", "code"},
)
