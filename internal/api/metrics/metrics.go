// Package metrics defines and registers all custom Prometheus metrics for the
// StudentsDesk API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package load and
// are exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studentsdesk"

// ── Student metrics ──────────────────────────────────────────────────────────

// StudentsCreatedTotal counts newly created students.
// Labels:
//   - course: the enrolled course (e.g. "Physics")
//   - owned: "true" when created by an authenticated user
var StudentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "students_created_total",
		Help:      "Total number of students created, by course and ownership.",
	},
	[]string{"course", "owned"},
)

// StudentOperationsTotal counts student operations by outcome.
// Labels:
//   - operation: list, get, create, update, delete, stats
//   - outcome: ok, invalid, duplicate, not_found, unauthorized, forbidden, error
var StudentOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "student_operations_total",
		Help:      "Total number of student operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// StatsCacheTotal counts stats cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of stats cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Auth metrics ─────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts sign-in attempts.
// Labels:
//   - method: register, login, demo
//   - result: success, failure
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// ── Activity trail metrics ───────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityProcessingDuration measures how long one entry takes to persist.
// Label:
//   - action: created, updated, deleted, or "error" on failure
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// ActivityErrorsTotal counts entries that failed to persist.
var ActivityErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of activity entries that failed to persist.",
	},
)

// ActivityDroppedTotal counts entries discarded because the worker channel
// was full or the dispatcher had stopped.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity entries dropped before processing.",
	},
)
