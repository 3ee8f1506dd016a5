package tracer

import (
	"os"
	"strconv"
)

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is reported as deployment.environment.
	AppEnv string `yaml:"app_env" envconfig:"APP_ENV"`

	// EnableExport sends spans to an OTLP/HTTP collector. The exporter itself
	// is configured through the standard OTEL_EXPORTER_OTLP_* variables.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`
}

// NewConfigFromEnv reads the tracer configuration from environment variables.
func NewConfigFromEnv() Config {
	cfg := Config{
		ServiceName: os.Getenv("TRACER_SERVICE_NAME"),
		AppEnv:      os.Getenv("APP_ENV"),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cfvectorize"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if v, err := strconv.ParseBool(os.Getenv("TRACER_ENABLE_EXPORT")); err == nil {
		cfg.EnableExport = v
	}
	return cfg
}
