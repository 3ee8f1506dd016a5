package metrics

import (
	"os"
	"strconv"
)

// DefaultMetricsAddress is used when Config.Address is empty.
const DefaultMetricsAddress = ":9090"

// Config defines how metrics are exposed.
type Config struct {
	// Address is where the /metrics HTTP server listens, e.g. ":9090".
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every metric name, e.g. "vectorize" → "vectorize_requests_total".
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is attached to every metric as the constant "service" label.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}

// NewConfigFromEnv reads the metrics configuration from environment variables.
func NewConfigFromEnv() Config {
	cfg := Config{
		Address:                 os.Getenv("METRICS_ADDRESS"),
		Namespace:               os.Getenv("METRICS_NAMESPACE"),
		ServiceName:             os.Getenv("METRICS_SERVICE_NAME"),
		EnableDefaultCollectors: true,
	}
	if cfg.Address == "" {
		cfg.Address = DefaultMetricsAddress
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cfvectorize"
	}
	if v, err := strconv.ParseBool(os.Getenv("METRICS_ENABLE_DEFAULT_COLLECTORS")); err == nil {
		cfg.EnableDefaultCollectors = v
	}
	return cfg
}
