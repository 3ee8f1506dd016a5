// Package metrics exposes Prometheus metrics for cfvectorize processes.
//
// A Metrics value owns an isolated registry with a constant service label and
// the following built-in series:
//
//	requests_total{route,status}                     REST facade requests
//	request_duration_seconds{route}                  REST facade latency
//	operations_total{component,operation,status}     client operations (vectorize, minio, qdrant, kafka)
//	operation_duration_seconds{component,operation}  client latency including retries
//	operation_items_total{component,operation}       vectors / bytes / messages handled
//	retries_total{operation}                         retried remote calls
//
// *Metrics implements observability.Observer, so it can be attached directly
// to any client in this module:
//
//	m := metrics.NewMetrics(metrics.NewConfigFromEnv())
//	client = client.WithObserver(m)
//	go m.Server.ListenAndServe()
//
// With Fx, FXModule provides *Metrics, MetricsCollector and
// observability.Observer and manages the server lifecycle.
package metrics
