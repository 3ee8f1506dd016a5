package minio

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// MinioClient wraps the MinIO SDK client for reading exports out of a
// single bucket.
type MinioClient struct {
	client *minio.Client
	cfg    Config

	observer observability.Observer
	logger   Logger
}

var _ ObjectReader = (*MinioClient)(nil)

// NewClient connects to MinIO and checks that the configured bucket exists.
// The bucket is never created.
//
// Example:
//
//	client, err := minio.NewClient(minio.NewConfigFromEnv())
//	if err != nil {
//	    return fmt.Errorf("failed to initialize MinIO client: %w", err)
//	}
//	client = client.WithLogger(myLogger).WithObserver(myObserver)
func NewClient(config Config) (*MinioClient, error) {
	client, err := connectToMinio(config)
	if err != nil {
		return nil, err
	}

	m := &MinioClient{client: client, cfg: config}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultOperationTimeout)
	defer cancel()
	if err := m.validateConnection(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func connectToMinio(cfg Config) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint cannot be empty")
	}
	if cfg.Connection.BucketName == "" {
		return nil, fmt.Errorf("minio bucket name cannot be empty")
	}

	client, err := minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return client, nil
}

// validateConnection uses a bucket-scoped call so credentials do not need
// ListAllMyBuckets.
func (m *MinioClient) validateConnection(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.cfg.Connection.BucketName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, TranslateError(err))
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, m.cfg.Connection.BucketName)
	}
	return nil
}

// Client returns the underlying SDK client.
func (m *MinioClient) Client() *minio.Client {
	return m.client
}

// Bucket returns the configured bucket name.
func (m *MinioClient) Bucket() string {
	return m.cfg.Connection.BucketName
}

// WithObserver attaches an observer notified after every list and open.
func (m *MinioClient) WithObserver(observer observability.Observer) *MinioClient {
	m.observer = observer
	return m
}

// WithLogger attaches a logger.
func (m *MinioClient) WithLogger(logger Logger) *MinioClient {
	m.logger = logger
	return m
}

func (m *MinioClient) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func (m *MinioClient) logWarn(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.WarnWithContext(ctx, msg, err, fields)
	}
}
