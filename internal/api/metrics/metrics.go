// Package metrics defines and registers the custom Prometheus metrics of the
// shortener service. Metric names, labels and help strings live here only.
//
// All metrics are registered with the default registry through promauto, so
// importing the package is enough; HTTP request metrics come from the
// echoprometheus middleware wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shortener"

// Result label values shared by the counters below.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultError    = "error"
	ResultDropped  = "dropped"
)

// ── Account metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts signup attempts.
// Label:
//   - result: "success", "conflict", "invalid" or "failure"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of signup attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Link metrics ──────────────────────────────────────────────────────────────

// LinksCreatedTotal counts links written to the store.
var LinksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "links_created_total",
		Help:      "Total number of short links created.",
	},
)

// CodeCollisionsTotal counts generated codes rejected because they were taken.
var CodeCollisionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "code_collisions_total",
		Help:      "Total number of generated short codes that collided with an existing link.",
	},
)

// RedirectsTotal counts resolve calls.
// Label:
//   - result: "success", "not_found" or "failure"
var RedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redirects_total",
		Help:      "Total number of short code resolutions, by result.",
	},
	[]string{"result"},
)

// CacheRequestsTotal counts link cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of link cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Visit metrics ─────────────────────────────────────────────────────────────

// VisitsRecordedTotal counts visit statistics updates.
// Label:
//   - result: "success", "failure" or "dropped" (queue full)
var VisitsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visits_recorded_total",
		Help:      "Total number of redirect visits processed, by result.",
	},
	[]string{"result"},
)

// VisitQueueDepth tracks pending visits per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var VisitQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "visit_queue_depth",
		Help:      "Current number of visits pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// VisitProcessingDuration measures how long recording a single visit takes.
var VisitProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "visit_processing_duration_seconds",
		Help:      "Duration of visit processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
