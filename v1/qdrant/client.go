package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT SOURCE CLIENT
// ──────────────────────────────────────────────────────────────
//
// Read-only wrapper around the official Qdrant Go client. It exposes the
// calls needed to migrate a collection: collection metadata and paged
// scrolling of points with payload and vectors.
//

// QdrantClient wraps the official Qdrant Go client.
type QdrantClient struct {
	api      *qdrant.Client
	cfg      *Config
	observer observability.Observer
	logger   Logger
}

// Logger is the logging interface used by the Qdrant client.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// NewQdrantClient connects and runs a health check so an unreachable
// server fails at startup.
//
// Example:
//
//	client, err := qdrant.NewQdrantClient(qdrant.FromEndpoint("localhost"))
func NewQdrantClient(cfg *Config) (*QdrantClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("[Qdrant] config is required")
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	qc := &QdrantClient{api: api, cfg: cfg}
	if err := qc.healthCheck(context.Background()); err != nil {
		_ = api.Close()
		return nil, err
	}
	return qc, nil
}

func (c *QdrantClient) healthCheck(ctx context.Context) error {
	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := c.api.HealthCheck(ctx); err != nil {
		return fmt.Errorf("[Qdrant] health check failed: %w", err)
	}
	return nil
}

// Client returns the underlying Qdrant SDK client.
func (c *QdrantClient) Client() *qdrant.Client {
	return c.api
}

func (c *QdrantClient) WithObserver(observer observability.Observer) *QdrantClient {
	c.observer = observer
	return c
}

func (c *QdrantClient) WithLogger(logger Logger) *QdrantClient {
	c.logger = logger
	return c
}

// Close releases the gRPC connection.
func (c *QdrantClient) Close() error {
	if c == nil || c.api == nil {
		return nil
	}
	return c.api.Close()
}

func (c *QdrantClient) observeOperation(operation, collection string, duration time.Duration, err error, size int64) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component: "qdrant",
		Operation: operation,
		Resource:  collection,
		Duration:  duration,
		Error:     err,
		Size:      size,
	})
}
