package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "market_scout"

// Fetch outcomes recorded on FetchRequests.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
)

// Metrics holds the Prometheus collectors for one command run. Each instance
// owns its registry so the run can be pushed or written out as a whole.
type Metrics struct {
	Registry *prometheus.Registry

	FetchRequests *prometheus.CounterVec   // labels: source={census,overpass}, outcome={success,error,empty}
	FetchDuration *prometheus.HistogramVec // labels: source
	RecordsParsed *prometheus.CounterVec   // labels: source
	PointsDropped prometheus.Counter

	ArtifactsWritten *prometheus.CounterVec // labels: kind={chart,map}
	RecordsPublished *prometheus.CounterVec // labels: topic

	LastSuccess prometheus.Gauge
}

// NewMetrics creates all collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Upstream API requests by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		RecordsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Records produced by the transform stage.",
		}, []string{"source"}),
		PointsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "amenity_points_dropped_total",
			Help:      "Overpass elements dropped for missing coordinates.",
		}),
		ArtifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Output files written by kind.",
		}, []string{"kind"}),
		RecordsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Records published to the Kafka sink by topic.",
		}, []string{"topic"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that produced output.",
		}),
	}

	m.Registry.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.RecordsParsed,
		m.PointsDropped,
		m.ArtifactsWritten,
		m.RecordsPublished,
		m.LastSuccess,
	)

	return m
}
