// Package metrics defines and registers all custom Prometheus metrics for the
// newsroom API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsroom"

// ── Article metrics ───────────────────────────────────────────────────────────

// ArticlesCreatedTotal counts newly published articles.
// Label:
//   - role: role of the author ("reporter" or "admin")
var ArticlesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_created_total",
		Help:      "Total number of articles created, by author role.",
	},
	[]string{"role"},
)

// ArticleMutationsTotal counts update and delete outcomes.
// Labels:
//   - op: "update" or "delete"
//   - result: "ok", "forbidden", "not_found" or "error"
var ArticleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "article_mutations_total",
		Help:      "Total number of article updates and deletions, by outcome.",
	},
	[]string{"op", "result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Category cache metrics ────────────────────────────────────────────────────

// CategoryCacheTotal counts category cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CategoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "category_cache_total",
		Help:      "Total number of category cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Image cleanup metrics ─────────────────────────────────────────────────────

// ImageCleanupTotal counts background image removals.
// Label:
//   - result: "removed", "failed" or "dropped" (queue full)
var ImageCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cleanup_total",
		Help:      "Total number of replaced or orphaned images processed by the cleanup workers.",
	},
	[]string{"result"},
)

// CleanupQueueDepth tracks the number of images waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cleanup_queue_depth",
		Help:      "Current number of images pending in each cleanup worker channel.",
	},
	[]string{"worker_id"},
)

// ImageCleanupDuration measures how long a single removal takes.
var ImageCleanupDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_cleanup_duration_seconds",
		Help:      "Duration of a single image removal.",
		Buckets:   prometheus.DefBuckets,
	},
)
