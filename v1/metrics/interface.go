package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// MetricsCollector is implemented by *Metrics.
type MetricsCollector interface {
	observability.Observer

	// IncrementRequests counts an HTTP request served by the REST facade.
	IncrementRequests(route, status string)

	// RecordRequestDuration observes the latency of a facade route.
	RecordRequestDuration(start time.Time, route string)

	// IncrementRetries counts a retried remote call.
	IncrementRetries(operation string)

	// CreateCounter creates and registers a CounterVec.
	CreateCounter(name, help string, labels []string) *prometheus.CounterVec

	// CreateHistogram creates and registers a HistogramVec.
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec

	// CreateGauge creates and registers a GaugeVec.
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
