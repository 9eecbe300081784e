package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for OSM imports.
type Metrics struct {
	Imports        *prometheus.CounterVec   // labels: outcome={success,<error kind>}
	ImportDuration *prometheus.HistogramVec // labels: outcome

	// OSM API client metrics.
	OSMRequests    *prometheus.CounterVec // labels: outcome={success,error,status}
	OSMAPIDuration prometheus.Histogram

	// Storage and event publishing.
	StoreDuration  *prometheus.HistogramVec // labels: driver
	EventsProduced prometheus.Counter
	PublishErrors  prometheus.Counter
}

// NewMetrics creates and registers all import metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Imports,
		m.ImportDuration,
		m.OSMRequests,
		m.OSMAPIDuration,
		m.StoreDuration,
		m.EventsProduced,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos_import",
			Name:      "imports_total",
			Help:      "OSM node imports by outcome.",
		}, []string{"outcome"}),
		ImportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pos_import",
			Name:      "import_duration_seconds",
			Help:      "Duration of an import by outcome, failed imports included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		OSMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos_import",
			Name:      "osm_requests_total",
			Help:      "OpenStreetMap API requests by outcome.",
		}, []string{"outcome"}),
		OSMAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pos_import",
			Name:      "osm_api_duration_seconds",
			Help:      "OpenStreetMap API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pos_import",
			Name:      "store_duration_seconds",
			Help:      "Point of sale create duration by storage driver.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"driver"}),
		EventsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos_import",
			Name:      "events_produced_total",
			Help:      "Import events written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos_import",
			Name:      "publish_errors_total",
			Help:      "Import events that could not be written to Kafka.",
		}),
	}
}
