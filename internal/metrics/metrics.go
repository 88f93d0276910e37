package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the feed engine
type Metrics struct {
	// Feed assembly
	FeedBuildDuration prometheus.HistogramVec
	FeedItemsEmitted  prometheus.CounterVec

	// Ad selection
	AdsSelectedTotal prometheus.CounterVec
	AdCacheHitsTotal prometheus.Counter
	AdCacheRefreshes prometheus.Counter

	// Engagement / analytics
	InteractionsTotal    prometheus.CounterVec
	ImpressionsTracked   prometheus.CounterVec
	CounterIncrementErrs prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			FeedBuildDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_build_duration_seconds",
					Help:    "Time spent assembling a mixed feed page",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
				},
				[]string{"page"},
			),
			FeedItemsEmitted: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_items_emitted_total",
					Help: "Feed items emitted, by kind",
				},
				[]string{"kind"},
			),
			AdsSelectedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ads_selected_total",
					Help: "Ad selections by outcome (targeted, fallback, none)",
				},
				[]string{"outcome"},
			),
			AdCacheHitsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "ad_cache_hits_total",
					Help: "Ad catalog cache hits",
				},
			),
			AdCacheRefreshes: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "ad_cache_refreshes_total",
					Help: "Ad catalog cache rebuilds",
				},
			),
			InteractionsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "interactions_total",
					Help: "Engagement interactions processed, by action type",
				},
				[]string{"action"},
			),
			ImpressionsTracked: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ad_impressions_tracked_total",
					Help: "Ad impression rows opened/closed",
				},
				[]string{"phase"},
			),
			CounterIncrementErrs: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "counter_increment_errors_total",
					Help: "Best-effort counter increments that failed",
				},
				[]string{"counter"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it if needed
func Get() *Metrics {
	return Initialize()
}
