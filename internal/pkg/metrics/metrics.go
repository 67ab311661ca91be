// Package metrics defines and registers all custom Prometheus metrics of the
// overlay service. Metrics are registered with the default registry on
// import and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "grical_overlay"

// ── Build metrics ─────────────────────────────────────────────────────────────

// OverlayBuildsTotal counts overlay builds.
// Labels:
//   - source: "viewport" (fetched from GriCal) or "payload" (supplied by the caller)
//   - result: "ok", "cached" or "error"
var OverlayBuildsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "builds_total",
		Help:      "Total number of overlay builds, by input source and result.",
	},
	[]string{"source", "result"},
)

// OverlayBuildDuration measures fetch+build time of a single overlay request.
var OverlayBuildDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "build_duration_seconds",
		Help:      "Duration of an overlay request from receipt to built overlay.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"source"},
)

// MarkersBuiltTotal counts markers placed on overlays.
var MarkersBuiltTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "markers_built_total",
		Help:      "Total number of markers added to overlays.",
	},
)

// RecordsSkippedTotal counts event records discarded by the builder.
// Label:
//   - reason: malformed_record, missing_field, invalid_coordinate_shape, invalid_coordinate_value
var RecordsSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_skipped_total",
		Help:      "Total number of event records skipped, by reason.",
	},
	[]string{"reason"},
)

// UpstreamErrorsTotal counts failed GriCal retrievals.
var UpstreamErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of failed event retrievals from GriCal.",
	},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts overlay cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of overlay cache lookups, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the skip batches waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of skip batches pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditBatchesTotal counts audit batches by outcome.
// Label:
//   - result: "written", "failed" or "dropped" (queue full)
var AuditBatchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_batches_total",
		Help:      "Total number of skipped-record audit batches, by outcome.",
	},
	[]string{"result"},
)
