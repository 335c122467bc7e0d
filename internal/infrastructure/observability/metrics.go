package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds every Prometheus metric the routing service exposes.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SearchesStarted   prometheus.Counter
	PathsYielded      *prometheus.HistogramVec
	PathAttempts      *prometheus.CounterVec
	WinningPathCost   prometheus.Histogram
	HandlerInitFailed *prometheus.CounterVec
	BreakerTrips      *prometheus.CounterVec
}

// NewCollector returns the process-wide metrics collector, creating it on
// first call. Subsequent calls with a different namespace are ignored; the
// registry is fixed at first use.
func NewCollector(namespace string) *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total number of HTTP requests"},
		[]string{"method", "route", "status"},
	)
	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	searchesStarted := prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "searches_started_total", Help: "Total number of path searches started"},
	)
	pathsYielded := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "paths_yielded_per_search", Help: "Number of candidate paths yielded before a search succeeded or was abandoned", Buckets: []float64{1, 2, 3, 5, 8, 13, 21}},
		[]string{"outcome"},
	)
	pathAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "path_attempts_total", Help: "Total number of path attempts, by outcome"},
		[]string{"outcome"},
	)
	winningPathCost := prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: namespace, Name: "winning_path_cost", Help: "Accumulated cost of the path an executor ultimately used", Buckets: prometheus.ExponentialBuckets(0.5, 2, 12)},
	)
	handlerInitFailed := prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "handler_init_failed_total", Help: "Total number of handler Init failures, by handler"},
		[]string{"handler"},
	)
	breakerTrips := prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "breaker_trips_total", Help: "Total number of circuit breaker transitions into the open state, by handler"},
		[]string{"handler"},
	)

	registry.MustRegister(
		httpRequests, httpDuration,
		searchesStarted, pathsYielded, pathAttempts, winningPathCost,
		handlerInitFailed, breakerTrips,
	)

	globalCollector = &Collector{
		registry:          registry,
		HTTPRequests:      httpRequests,
		HTTPDuration:      httpDuration,
		SearchesStarted:   searchesStarted,
		PathsYielded:      pathsYielded,
		PathAttempts:      pathAttempts,
		WinningPathCost:   winningPathCost,
		HandlerInitFailed: handlerInitFailed,
		BreakerTrips:      breakerTrips,
	}
	return globalCollector
}

// ResetForTesting drops the global collector so a subsequent NewCollector
// call registers fresh metrics. Tests that construct more than one Collector
// in the same process must call this between them.
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}

// GetRegistry returns the Prometheus registry backing this collector, for
// mounting a /metrics handler.
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
