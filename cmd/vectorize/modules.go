package main

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/ingest"
	"github.com/Aleph-Alpha/cfvectorize/v1/kafka"
	"github.com/Aleph-Alpha/cfvectorize/v1/logger"
	"github.com/Aleph-Alpha/cfvectorize/v1/metrics"
	"github.com/Aleph-Alpha/cfvectorize/v1/minio"
	"github.com/Aleph-Alpha/cfvectorize/v1/qdrant"
	"github.com/Aleph-Alpha/cfvectorize/v1/server"
	"github.com/Aleph-Alpha/cfvectorize/v1/tracer"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// loggerAdapters exposes the zap logger under every package's Logger interface.
var loggerAdapters = fx.Provide(
	func(l logger.Logger) vectorize.Logger { return l },
	func(l logger.Logger) metrics.Logger { return l },
	func(l logger.Logger) tracer.Logger { return l },
	func(l logger.Logger) server.Logger { return l },
	func(l logger.Logger) minio.Logger { return l },
	func(l logger.Logger) qdrant.Logger { return l },
	func(l logger.Logger) kafka.Logger { return l },
	func(l logger.Logger) ingest.Logger { return l },
)

// coreModules wires logging, tracing, metrics and the Vectorize client.
// standaloneMetrics starts the separate /metrics listener.
func coreModules(standaloneMetrics bool) fx.Option {
	return fx.Options(
		fx.Provide(
			logger.NewConfigFromEnv,
			tracer.NewConfigFromEnv,
			vectorize.NewConfigFromEnv,
			func() metrics.Config {
				cfg := metrics.NewConfigFromEnv()
				if !standaloneMetrics {
					cfg.Address = "-"
				}
				return cfg
			},
		),
		loggerAdapters,
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		vectorize.FXModule,
	)
}
