package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconcile_duration_seconds",
		Help:    "Duration of full reconciliation passes in seconds",
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	reconcilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciles_total",
			Help: "Total number of reconciliation passes by outcome",
		},
		[]string{"outcome"},
	)

	sourceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_failures_total",
			Help: "Per-source fetch failures swallowed at the fan-out boundary",
		},
		[]string{"exchange", "op"},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Cache lookups by view and result",
		},
		[]string{"view", "result"},
	)

	snapshotsTakenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_snapshots_taken_total",
		Help: "Total number of portfolio value snapshots persisted",
	})

	alertsTriggeredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "price_alerts_triggered_total",
		Help: "Total number of price alerts that fired",
	})
)

// ObserveReconcile records the duration and outcome of one reconciliation pass.
func ObserveReconcile(d time.Duration, partial bool) {
	reconcileDuration.Observe(d.Seconds())
	outcome := "complete"
	if partial {
		outcome = "partial"
	}
	reconcilesTotal.WithLabelValues(outcome).Inc()
}

// SourceFailure counts one isolated per-source fetch failure.
func SourceFailure(exchange, op string) {
	sourceFailuresTotal.WithLabelValues(exchange, op).Inc()
}

// CacheLookup counts a cache hit or miss for a named view.
func CacheLookup(view string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(view, result).Inc()
}

// SnapshotTaken counts one persisted portfolio snapshot.
func SnapshotTaken() {
	snapshotsTakenTotal.Inc()
}

// AlertTriggered counts one fired price alert.
func AlertTriggered() {
	alertsTriggeredTotal.Inc()
}
