// Package metrics defines and registers all custom Prometheus metrics for
// the iplace grid API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time; the /metrics
// endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "iplace"

// --- Placement metrics ---

// TilesPlacedTotal counts committed tile placements.
// Label:
//   - mode: "player" (session-authenticated placement) or "forced"
//     (automation boundary, individually pending tile)
var TilesPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tiles_placed_total",
		Help:      "Total number of tiles committed to the grid.",
	},
	[]string{"mode"},
)

// PlacementsRejectedTotal counts placements rejected by the engine.
// Label:
//   - reason: "pending_frame", "forbidden", "budget", "occupied", "not_adjacent"
var PlacementsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "placements_rejected_total",
		Help:      "Total number of tile placements rejected, by reason.",
	},
	[]string{"reason"},
)

// --- Frame metrics ---

// FramesCreatedTotal counts newly claimed frames.
var FramesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_created_total",
		Help:      "Total number of frames created.",
	},
)

// FramesApprovedTotal counts approval passes (including re-approvals).
var FramesApprovedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_approved_total",
		Help:      "Total number of frame approvals, re-approvals included.",
	},
)

// FramesRePendedTotal counts frames sent back for review by their owner.
var FramesRePendedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_re_pended_total",
		Help:      "Total number of frames returned to pending review.",
	},
)

// --- Upstream metrics ---

// WorkFetchDuration measures round trips to the external time tracker.
// Label:
//   - result: "ok" or "error"
var WorkFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "work_fetch_duration_seconds",
		Help:      "Duration of work-entry fetches from the time tracker.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// WorkCacheTotal counts cache decisions for work-entry fetches.
// Label:
//   - result: "hit" (served from cache) or "miss" (fetched upstream)
var WorkCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "work_cache_total",
		Help:      "Total number of work-entry cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)
