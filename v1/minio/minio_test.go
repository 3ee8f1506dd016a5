package minio

import (
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, ErrObjectNotFound},
		{"no such bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404}, ErrBucketNotFound},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TranslateError(tt.in)
			assert.ErrorIs(t, err, tt.want)

			var resp minio.ErrorResponse
			assert.True(t, errors.As(err, &resp))
		})
	}

	plain := errors.New("boom")
	assert.Same(t, plain, TranslateError(plain))
	assert.NoError(t, TranslateError(nil))
}

func TestHasExtension(t *testing.T) {
	exts := Config{}.extensions()
	assert.True(t, hasExtension("a/b/part-0001.ndjson", exts))
	assert.True(t, hasExtension("a/b/part-0001.JSONL", exts))
	assert.False(t, hasExtension("a/b/_SUCCESS", exts))
	assert.False(t, hasExtension("a/b/part.json", exts))

	assert.True(t, hasExtension("x.vec", Config{Extensions: []string{".vec"}}.extensions()))
}

func TestNewClientRequiresEndpointAndBucket(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	_, err = NewClient(Config{Connection: ConnectionConfig{Endpoint: "localhost:9000"}})
	assert.Error(t, err)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_BUCKET", "exports")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := NewConfigFromEnv()
	assert.Equal(t, "minio:9000", cfg.Connection.Endpoint)
	assert.Equal(t, "exports", cfg.Connection.BucketName)
	assert.True(t, cfg.Connection.UseSSL)
	assert.Equal(t, DefaultExtensions, cfg.Extensions)
}

func TestObserveReportsBucketAndTarget(t *testing.T) {
	var got []observability.OperationContext
	m := &MinioClient{cfg: Config{Connection: ConnectionConfig{BucketName: "exports"}}}
	m.observe("list", "run-1/", time.Now(), nil, 2)

	m.WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		got = append(got, op)
	}))
	m.observe("list", "run-1/", time.Now(), nil, 2)
	m.observe("open", "run-1/part-0001.ndjson", time.Now(), ErrObjectNotFound, 0)

	assert.Len(t, got, 2)
	assert.Equal(t, "minio", got[0].Component)
	assert.Equal(t, "exports", got[0].Resource)
	assert.Equal(t, "run-1/", got[0].SubResource)
	assert.Equal(t, int64(2), got[0].Size)
	assert.Equal(t, "open", got[1].Operation)
	assert.Equal(t, "run-1/part-0001.ndjson", got[1].SubResource)
	assert.ErrorIs(t, got[1].Error, ErrObjectNotFound)
}
