// Package logger provides the structured logger used across cfvectorize.
//
// LoggerClient wraps Uber's zap with a small, map-based field API so that
// packages can depend on a narrow Logger interface instead of zap itself.
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Info,
//		ServiceName:   "vectorize-api",
//		EnableTracing: true,
//	})
//
//	log.Info("index created", nil, map[string]interface{}{
//		"index":      "docs",
//		"dimensions": 768,
//	})
//
//	// Adds trace_id and span_id when ctx carries an OpenTelemetry span.
//	log.ErrorWithContext(ctx, "query failed", err, map[string]interface{}{
//		"index": "docs",
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule, // provides *LoggerClient and logger.Logger
//		fx.Provide(logger.NewConfigFromEnv),
//	)
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_SERVICE_NAME=vectorize   # value of the "service" field
//	LOGGER_ENABLE_TRACING=true      # attach trace_id/span_id in *WithContext methods
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package logger
