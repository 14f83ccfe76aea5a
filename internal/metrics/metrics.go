// Package metrics provides the centralized Prometheus metrics registry for
// the racing predictor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racing_predictor",
		Name:      "predictions_total",
		Help:      "Total number of predictions produced, by method",
	}, []string{"method"})
	RacesRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "racing_predictor",
		Name:      "races_recorded_total",
		Help:      "Total number of confirmed race outcomes appended",
	})
	HistorySavesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racing_predictor",
		Name:      "history_saves_total",
		Help:      "Total number of history save attempts, by result",
	}, []string{"result"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "racing_predictor",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "racing_predictor",
		Name:      "prediction_cache_misses_total",
		Help:      "Total number of prediction cache misses",
	})
)

// Gauge metrics
var (
	HistorySize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "racing_predictor",
		Name:      "history_size",
		Help:      "Number of records in the in-memory history",
	})
	OverallAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "racing_predictor",
		Name:      "overall_accuracy",
		Help:      "Most recent overall prediction accuracy (0-1)",
	})
)

// Init registers all metrics with the global registry exactly once
func Init() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			PredictionsTotal,
			RacesRecordedTotal,
			HistorySavesTotal,
			CacheHitsTotal,
			CacheMissesTotal,
			HistorySize,
			OverallAccuracy,
		)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Init(), promhttp.HandlerOpts{})
}
