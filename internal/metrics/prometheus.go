// Package metrics exports service metrics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled requests per endpoint.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperplant_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"endpoint", "method", "status"},
	)

	// RequestDuration measures request handling latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paperplant_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint", "method"},
	)

	// ReadingsSynthesized counts quality readings produced by the engine.
	ReadingsSynthesized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paperplant_readings_synthesized_total",
			Help: "Total number of quality readings synthesized",
		},
	)

	// AlertsSynthesized counts generated alerts by level.
	AlertsSynthesized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperplant_alerts_synthesized_total",
			Help: "Total number of alerts synthesized",
		},
		[]string{"level"},
	)

	// JourneysSynthesized counts generated lot journeys.
	JourneysSynthesized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paperplant_journeys_synthesized_total",
			Help: "Total number of lot journeys synthesized",
		},
	)

	// AlertsPublished counts critical alerts published to NATS.
	AlertsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paperplant_alerts_published_total",
			Help: "Total number of critical alerts published to the broker",
		},
	)

	// CacheHits counts response cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paperplant_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses counts response cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paperplant_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// ActiveGoroutines tracks goroutine count.
	ActiveGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "paperplant_active_goroutines",
			Help: "Number of active goroutines",
		},
	)

	// SynthesisLatency measures synthesis computation latency.
	SynthesisLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paperplant_synthesis_latency_seconds",
			Help:    "Synthesis computation latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05},
		},
	)
)
