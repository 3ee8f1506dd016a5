package minio

import (
	"context"
	"io"
	"time"
)

// ObjectReader is the read-only view of a bucket the ingest sources need.
// It is implemented by *MinioClient.
type ObjectReader interface {
	// ListObjects returns the NDJSON objects under prefix, sorted by key.
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Open streams an object. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ObjectInfo describes one listed object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// Logger is the logging interface used by the MinIO client.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
