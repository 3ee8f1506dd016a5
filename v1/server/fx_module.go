package server

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/metrics"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// FXModule provides the REST facade and runs it for the lifetime of the
// application. Requires a server.Config and a *vectorize.Client.
//
//	app := fx.New(
//	    vectorize.FXModule,
//	    server.FXModule,
//	    fx.Provide(vectorize.NewConfigFromEnv, server.NewConfigFromEnv),
//	)
var FXModule = fx.Module("server",
	fx.Provide(NewServerWithDI),
	fx.Invoke(RegisterServerLifecycle),
)

// ServerParams groups the dependencies of the facade. Logger and Metrics
// are optional.
type ServerParams struct {
	fx.In

	Config  Config
	Client  *vectorize.Client
	Logger  Logger           `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

func NewServerWithDI(p ServerParams) *Server {
	s := NewServer(p.Config, p.Client)
	if p.Logger != nil {
		s.WithLogger(p.Logger)
	}
	if p.Metrics != nil {
		s.WithMetrics(p.Metrics).WithMetricsHandler(p.Metrics.Handler())
	}
	return s
}

// RegisterServerLifecycle starts listening on start and drains in-flight
// requests on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}
