package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchRequests tracks upstream playlist fetches by result
	FetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hlsort_fetch_requests_total",
		Help: "Total number of upstream playlist fetches",
	}, []string{"result"})

	// FetchDuration tracks how long upstream fetches take
	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hlsort_fetch_duration_seconds",
		Help:    "Duration of upstream playlist fetches",
		Buckets: prometheus.DefBuckets,
	})

	// CacheResults tracks cache lookups by outcome (hit, miss, stale)
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hlsort_cache_results_total",
		Help: "Total number of playlist cache lookups by outcome",
	}, []string{"outcome"})

	// CircuitBreakerState tracks the current state of circuit breakers
	// 0=closed, 1=open, 2=half-open
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hlsort_circuit_breaker_state",
		Help: "Current state of circuit breaker (0=closed, 1=open, 2=half-open)",
	}, []string{"host"})

	// CircuitBreakerTrips tracks how many times a circuit breaker transitioned to OPEN
	CircuitBreakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hlsort_circuit_breaker_trips_total",
		Help: "Total number of times circuit breaker transitioned to OPEN state",
	}, []string{"host"})

	// Rewrites tracks playlist rewrites by result
	Rewrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hlsort_rewrites_total",
		Help: "Total number of master playlist rewrites",
	}, []string{"result"})

	// RewriteDuration tracks parse, sort and serialize time
	RewriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hlsort_rewrite_duration_seconds",
		Help:    "Duration of master playlist rewrites",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})

	// SectionRecords tracks how many records each playlist section holds
	SectionRecords = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hlsort_section_records",
		Help:    "Number of records per master playlist section",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	}, []string{"section"})
)

// SetCircuitBreakerState updates the circuit breaker state metric
// state should be one of: "CLOSED" (0), "OPEN" (1), "HALF-OPEN" (2)
func SetCircuitBreakerState(host, state string) {
	var value float64
	switch state {
	case "CLOSED":
		value = 0
	case "OPEN":
		value = 1
	case "HALF-OPEN":
		value = 2
	}
	CircuitBreakerState.WithLabelValues(host).Set(value)
}

// RecordCircuitBreakerTrip increments the circuit breaker trip counter
func RecordCircuitBreakerTrip(host string) {
	CircuitBreakerTrips.WithLabelValues(host).Inc()
}

// RecordFetch counts one fetch and observes its duration
func RecordFetch(result string, d time.Duration) {
	FetchRequests.WithLabelValues(result).Inc()
	FetchDuration.Observe(d.Seconds())
}

// RecordCacheResult increments the cache outcome counter
func RecordCacheResult(outcome string) {
	CacheResults.WithLabelValues(outcome).Inc()
}

// RecordRewrite counts one rewrite and observes its duration
func RecordRewrite(result string, d time.Duration) {
	Rewrites.WithLabelValues(result).Inc()
	RewriteDuration.Observe(d.Seconds())
}

// ObserveSectionRecords records the size of one parsed section
func ObserveSectionRecords(section string, n int) {
	SectionRecords.WithLabelValues(section).Observe(float64(n))
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
