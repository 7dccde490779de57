// Package metrics holds the Prometheus collectors of the service on a dedicated
// registry.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes besides the failure reasons
const (
	OutcomeComplete = "complete"
	OutcomeError    = "error"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// Searches counts route searches by strategy and outcome
	Searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_searches_total", Help: "Route searches by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)
	// SearchDuration records search latency in seconds
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_search_duration_seconds", Help: "Route search duration in seconds.", Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30}},
		[]string{"strategy"},
	)
	// JourneyDays records the length in days of completed journeys
	JourneyDays = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "journey_days", Help: "Days needed by completed journeys.", Buckets: []float64{1, 2, 5, 10, 20, 40, 80}},
		[]string{"strategy"},
	)

	// IndexLoads counts neighbor index loads by source (built or cache)
	IndexLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "neighbor_index_loads_total", Help: "Neighbor index loads by source."},
		[]string{"source"},
	)
	// Cities is the size of the active city table
	Cities = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "cities_loaded", Help: "Cities in the active table."},
	)
	// StreamClients is the number of open journey streams
	StreamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "journey_stream_clients", Help: "Open journey stream connections."},
	)
)

// RegisterDefault registers every collector on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Searches)
		Registry.MustRegister(SearchDuration)
		Registry.MustRegister(JourneyDays)
		Registry.MustRegister(IndexLoads)
		Registry.MustRegister(Cities)
		Registry.MustRegister(StreamClients)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// Handler exposes Registry in the Prometheus text format
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one finished search. days is only recorded for
// complete journeys.
func ObserveSearch(strategy, outcome string, elapsed time.Duration, days float64) {
	Searches.WithLabelValues(strategy, outcome).Inc()
	SearchDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	if outcome == OutcomeComplete {
		JourneyDays.WithLabelValues(strategy).Observe(days)
	}
}

// ObserveHTTP records one served request
func ObserveHTTP(method, path, status string, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, path, status).Inc()
	HTTPDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}
