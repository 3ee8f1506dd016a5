package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// IncrementRequests counts a facade request.
// Example: m.IncrementRequests("POST /indexes/{index}/vectors/query", "200")
func (m *Metrics) IncrementRequests(route, status string) {
	m.requestsTotal.WithLabelValues(route, status).Inc()
}

// RecordRequestDuration observes time since start for route.
// Example: defer m.RecordRequestDuration(time.Now(), "GET /indexes")
func (m *Metrics) RecordRequestDuration(start time.Time, route string) {
	m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// IncrementRetries counts one retry of operation.
func (m *Metrics) IncrementRetries(operation string) {
	m.retriesTotal.WithLabelValues(operation).Inc()
}

// ObserveOperation implements observability.Observer.
func (m *Metrics) ObserveOperation(ctx observability.OperationContext) {
	m.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, ctx.Status()).Inc()
	m.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
	if ctx.Size > 0 {
		m.operationSize.WithLabelValues(ctx.Component, ctx.Operation).Add(float64(ctx.Size))
	}
	if retries, ok := ctx.Metadata["retries"].(int); ok && retries > 0 {
		m.retriesTotal.WithLabelValues(ctx.Operation).Add(float64(retries))
	}
}

// CreateCounter creates a new CounterVec and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := m.newCounterVec(name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := m.newHistogramVec(name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
	}, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func (m *Metrics) newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func (m *Metrics) newHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
