package qdrant

import (
	"os"
	"strconv"
	"time"
)

// Config holds connection settings for the Qdrant client used as a
// migration source.
//
// Example (programmatic):
//
//	cfg := qdrant.DefaultConfig()
//	cfg.Endpoint = "qdrant.internal"
//	cfg.ApiKey = os.Getenv("QDRANT_API_KEY")
//
// Example (builder style):
//
//	cfg := qdrant.FromEndpoint("qdrant.internal").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// UseTLS enables TLS on the gRPC connection.
	UseTLS bool `yaml:"use_tls" env:"QDRANT_USE_TLS"`

	// Timeout bounds the startup health check.
	Timeout time.Duration `yaml:"timeout" env:"QDRANT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`

	// VectorName selects a named vector. Empty means the default unnamed vector.
	VectorName string `yaml:"vector_name" env:"QDRANT_VECTOR_NAME"`
}

const defaultPort = 6334

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               defaultPort,
		Timeout:            5 * time.Second,
		CheckCompatibility: true,
	}
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(host string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = host
	return cfg
}

// NewConfigFromEnv overlays QDRANT_* environment variables on DefaultConfig.
func NewConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("QDRANT_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil && v > 0 {
		cfg.Port = v
	}
	cfg.ApiKey = os.Getenv("QDRANT_API_KEY")
	if v, err := strconv.ParseBool(os.Getenv("QDRANT_USE_TLS")); err == nil {
		cfg.UseTLS = v
	}
	cfg.VectorName = os.Getenv("QDRANT_VECTOR_NAME")
	return cfg
}

func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithPort(port int) *Config {
	c.Port = port
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}

func (c *Config) WithVectorName(name string) *Config {
	c.VectorName = name
	return c
}
