package server

import (
	"os"
	"strconv"
	"time"
)

const (
	DefaultAddress         = ":8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	// DefaultMaxBodyBytes fits 1000 vectors of 1536 dimensions as JSON.
	DefaultMaxBodyBytes = 64 << 20
)

// Config defines the REST facade listener.
type Config struct {
	// Address is the listen address, e.g. ":8080".
	Address string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64

	// ServeMetrics mounts the Prometheus handler on /metrics when one is available.
	ServeMetrics bool
}

// DefaultConfig returns a config listening on DefaultAddress with /metrics enabled.
func DefaultConfig() Config {
	return Config{
		Address:         DefaultAddress,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ServeMetrics:    true,
	}
}

// NewConfigFromEnv overlays SERVER_ADDRESS, SERVER_SHUTDOWN_TIMEOUT_SECONDS
// and SERVER_SERVE_METRICS on DefaultConfig.
func NewConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v, err := strconv.Atoi(os.Getenv("SERVER_SHUTDOWN_TIMEOUT_SECONDS")); err == nil && v > 0 {
		cfg.ShutdownTimeout = time.Duration(v) * time.Second
	}
	if v, err := strconv.ParseBool(os.Getenv("SERVER_SERVE_METRICS")); err == nil {
		cfg.ServeMetrics = v
	}
	return cfg
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	return c
}
