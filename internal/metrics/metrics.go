// Package metrics exposes Prometheus collectors for the alert service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crisis_alerts"

var (
	// AlertMutationsTotal counts create/update attempts by outcome.
	AlertMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_mutations_total",
			Help:      "Alert create and update operations by result",
		},
		[]string{"op", "result"},
	)

	// PersistenceLatency measures load/save round trips against the storage backend.
	PersistenceLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persistence_latency_seconds",
			Help:      "Time spent loading or saving the alert collection",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"op"},
	)

	OracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_requests_total",
			Help:      "Generative model requests by kind and result",
		},
		[]string{"kind", "result"},
	)

	OracleLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_latency_seconds",
			Help:      "Generative model request latency",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	IngestedAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_alerts_total",
			Help:      "Alerts created from external feeds",
		},
		[]string{"source"},
	)

	StreamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Connected live alert stream clients",
		},
	)
)

// Result labels a boolean outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
