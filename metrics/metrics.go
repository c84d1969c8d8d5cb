// Package metrics holds the prometheus collectors shared by chartlab
// components.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	computeDurationMetrics = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartlab_indicator_compute_duration_seconds",
			Help:    "Indicator computation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}, []string{"indicator"},
	)

	computePointsMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartlab_indicator_points_total",
			Help: "Total number of indicator points produced",
		}, []string{"indicator"},
	)

	fetchTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartlab_candle_fetch_total",
			Help: "Candle fetches by source and result",
		}, []string{"source", "result"},
	)

	seriesCacheMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartlab_series_cache_total",
			Help: "Indicator series cache lookups by outcome",
		}, []string{"outcome"},
	)

	refreshTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartlab_refresh_total",
			Help: "Scheduled refreshes by symbol and result",
		}, []string{"symbol", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		computeDurationMetrics,
		computePointsMetrics,
		fetchTotalMetrics,
		seriesCacheMetrics,
		refreshTotalMetrics,
	)
}

// ObserveCompute records one indicator computation.
func ObserveCompute(indicator string, started time.Time, points int) {
	computeDurationMetrics.WithLabelValues(indicator).Observe(time.Since(started).Seconds())
	computePointsMetrics.WithLabelValues(indicator).Add(float64(points))
}

// Fetch results.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultCached   = "cached"
	ResultFallback = "fallback"
)

func IncFetch(source, result string) {
	fetchTotalMetrics.WithLabelValues(source, result).Inc()
}

func IncCacheHit()   { seriesCacheMetrics.WithLabelValues("hit").Inc() }
func IncCacheMiss()  { seriesCacheMetrics.WithLabelValues("miss").Inc() }
func IncCacheError() { seriesCacheMetrics.WithLabelValues("error").Inc() }

func IncRefresh(symbol string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	refreshTotalMetrics.WithLabelValues(symbol, result).Inc()
}
