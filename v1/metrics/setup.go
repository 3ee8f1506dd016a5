package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated Prometheus registry and the HTTP server that
// exposes it on /metrics.
type Metrics struct {
	// Server serves the /metrics endpoint.
	Server *http.Server

	// Registry holds every collector of this service.
	Registry *prometheus.Registry

	registerer prometheus.Registerer
	namespace  string

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationSize     *prometheus.CounterVec
	retriesTotal      *prometheus.CounterVec
}

// NewMetrics creates the registry, registers the built-in collectors, and
// prepares (but does not start) the metrics server.
//
// All metrics carry the constant label service="<cfg.ServiceName>".
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "vectorize-api"})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		registerer: wrapped,
		namespace:  cfg.Namespace,
	}

	m.requestsTotal = m.newCounterVec("requests_total", "Total number of HTTP requests served by the REST facade", []string{"route", "status"})
	m.requestDuration = m.newHistogramVec("request_duration_seconds", "Duration of HTTP requests served by the REST facade", []string{"route"}, prometheus.DefBuckets)
	m.operationsTotal = m.newCounterVec("operations_total", "Total number of client operations", []string{"component", "operation", "status"})
	m.operationDuration = m.newHistogramVec("operation_duration_seconds", "Duration of client operations including retries", []string{"component", "operation"}, prometheus.DefBuckets)
	m.operationSize = m.newCounterVec("operation_items_total", "Number of items (vectors, bytes, messages) handled by client operations", []string{"component", "operation"})
	m.retriesTotal = m.newCounterVec("retries_total", "Total number of retried remote calls", []string{"operation"})

	wrapped.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.operationsTotal,
		m.operationDuration,
		m.operationSize,
		m.retriesTotal,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	m.Server = &http.Server{
		Addr:    address,
		Handler: mux,
	}
	return m
}

// Handler returns the promhttp handler for this registry, for mounting on
// another mux (the REST facade mounts it on its own /metrics route).
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
