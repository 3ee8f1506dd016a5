package minio

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultOperationTimeout bounds connection checks.
	DefaultOperationTimeout = 10 * time.Second
)

// Config holds the settings for the read-only MinIO/S3 client used to pull
// NDJSON exports into Vectorize.
type Config struct {
	// Connection details for the MinIO server
	Connection ConnectionConfig

	// Extensions lists the object key suffixes treated as NDJSON.
	// Defaults to ".ndjson" and ".jsonl".
	Extensions []string
}

// ConnectionConfig contains MinIO server connection details.
type ConnectionConfig struct {
	Endpoint        string // MinIO server endpoint, e.g., "localhost:9000"
	AccessKeyID     string // MinIO access key
	SecretAccessKey string // MinIO secret key
	UseSSL          bool   // Use SSL (true for "https", false for "http")
	BucketName      string // Bucket the exports live in
	Region          string // Region for the bucket (e.g., "us-east-1")
}

// DefaultExtensions are the suffixes recognised as NDJSON objects.
var DefaultExtensions = []string{".ndjson", ".jsonl"}

// NewConfigFromEnv reads MINIO_ENDPOINT, MINIO_ACCESS_KEY_ID,
// MINIO_SECRET_ACCESS_KEY, MINIO_USE_SSL, MINIO_BUCKET and MINIO_REGION.
func NewConfigFromEnv() Config {
	useSSL, _ := strconv.ParseBool(os.Getenv("MINIO_USE_SSL"))
	return Config{
		Connection: ConnectionConfig{
			Endpoint:        os.Getenv("MINIO_ENDPOINT"),
			AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("MINIO_SECRET_ACCESS_KEY"),
			UseSSL:          useSSL,
			BucketName:      os.Getenv("MINIO_BUCKET"),
			Region:          os.Getenv("MINIO_REGION"),
		},
		Extensions: append([]string(nil), DefaultExtensions...),
	}
}

func (c Config) extensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	return c.Extensions
}
