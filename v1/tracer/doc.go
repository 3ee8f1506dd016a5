// Package tracer configures OpenTelemetry tracing for cfvectorize services.
//
// NewClient installs a global TracerProvider, so spans started by the
// vectorize client (named "vectorize.<operation>") are exported without
// further wiring. Export is optional and uses OTLP over HTTP; endpoint and
// headers come from the standard OTEL_EXPORTER_OTLP_* environment variables.
//
//	t, err := tracer.NewClient(tracer.NewConfigFromEnv(), log)
//	if err != nil {
//	    return err
//	}
//	defer t.Shutdown(ctx)
package tracer
