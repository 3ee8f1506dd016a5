package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// Logger is the subset of logger.Logger the metrics lifecycle uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// FXModule provides *Metrics, the MetricsCollector interface and an
// observability.Observer backed by the same registry, and runs the /metrics
// server for the lifetime of the application. Requires a metrics.Config and a Logger.
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    fx.Provide(logger.NewConfigFromEnv, metrics.NewConfigFromEnv),
//	)
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
		fx.Annotate(
			func(m *Metrics) observability.Observer { return m },
			fx.As(new(observability.Observer)),
		),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsLifecycleParams groups the dependencies of RegisterMetricsLifecycle.
type MetricsLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    Logger
	Config    Config
}

// RegisterMetricsLifecycle starts the metrics server in the background on
// start and shuts it down gracefully on stop. The address "-" disables the
// standalone server, e.g. when the REST facade serves /metrics itself.
func RegisterMetricsLifecycle(p MetricsLifecycleParams) {
	if p.Config.Address == "-" {
		return
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				p.Logger.Info("starting prometheus metrics server", nil, map[string]interface{}{
					"address": p.Metrics.Server.Addr,
				})
				if err := p.Metrics.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("prometheus metrics server stopped", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("shutting down prometheus metrics server", nil, nil)
			return p.Metrics.Server.Shutdown(ctx)
		},
	})
}
