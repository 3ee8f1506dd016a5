package logger

import (
	"os"
	"strconv"
)

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the zap logger built by NewLoggerClient.
type Config struct {
	// Level is one of "debug", "info", "warning", "error". Anything else means info.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" envconfig:"LOGGER_SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id to entries logged through the
	// *WithContext methods when the context carries an OpenTelemetry span.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"LOGGER_ENABLE_TRACING"`
}

// NewConfigFromEnv reads the logger configuration from environment variables.
func NewConfigFromEnv() Config {
	cfg := Config{
		Level:       os.Getenv("ZAP_LOGGER_LEVEL"),
		ServiceName: os.Getenv("LOGGER_SERVICE_NAME"),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cfvectorize"
	}
	if v, err := strconv.ParseBool(os.Getenv("LOGGER_ENABLE_TRACING")); err == nil {
		cfg.EnableTracing = v
	}
	return cfg
}
