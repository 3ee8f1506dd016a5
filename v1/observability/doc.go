// Package observability defines the hook that clients in this module use to
// report completed operations to metrics, tracing, or audit backends.
//
// Clients accept an optional Observer. A nil Observer disables reporting:
//
//	client, _ := vectorize.NewClient(cfg)
//	client = client.WithObserver(myMetrics)
//
// When using Fx, provide an observability.Observer and the client modules pick
// it up through their optional dependency parameters:
//
//	fx.Provide(func(m *metrics.Metrics) observability.Observer { return m })
package observability
