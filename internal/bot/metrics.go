// Package bot – Prometheus instrumentation for update processing.
//
// Label cardinality stays bounded: update kind is one of a fixed small set,
// and no requester identity ever becomes a label.
package bot

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// botUpdates counts inbound updates by kind (command/text/callback/other).
	botUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of Telegram updates received.",
		},
		[]string{"kind"},
	)

	// botReplies counts outbound messages sent to requesters.
	botReplies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_replies_total",
			Help: "Total number of replies sent.",
		},
	)

	// botThrottled counts updates rejected by the per-requester limiter.
	botThrottled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_updates_throttled_total",
			Help: "Total number of updates rejected by rate limiting.",
		},
	)

	// botUpdateDuration records end-to-end handling time per update.
	botUpdateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of update handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(botUpdates, botReplies, botThrottled, botUpdateDuration)
}
