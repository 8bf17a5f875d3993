// Package metrics defines and registers all custom Prometheus metrics for the
// platform API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through
// promauto when the package is first imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "platform"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthDecisionsTotal counts guard decisions.
// Label:
//   - result: "allowed" or the error code of the denial (e.g. "ExpiredToken", "Forbidden")
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authorization guard decisions, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts bearer tokens issued by register and login.
// Label:
//   - role: "client" or "expert"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued, by role.",
	},
	[]string{"role"},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationDuration measures record store calls.
// Labels:
//   - table: the table or collection name
//   - op: "find", "insert", "update", "delete" or "ping"
//   - result: "ok" or "error"
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of record store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"table", "op", "result"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ResourcesCreatedTotal counts newly created owned resources.
// Label:
//   - kind: "audit", "simulation" or "eligibility"
var ResourcesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resources_created_total",
		Help:      "Total number of resources created, by kind.",
	},
	[]string{"kind"},
)

// ── Access log metrics ────────────────────────────────────────────────────────

// AccessLogDroppedTotal counts entries discarded because a worker queue was full.
var AccessLogDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_log_dropped_total",
		Help:      "Total number of access log entries dropped on a full queue.",
	},
)

// AccessLogQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AccessLogQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "access_log_queue_depth",
		Help:      "Current number of access log entries pending in each worker channel.",
	},
	[]string{"worker_id"},
)
