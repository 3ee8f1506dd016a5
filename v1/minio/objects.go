package minio

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// ListObjects returns every object under prefix whose key ends in one of the
// configured extensions.
func (m *MinioClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	start := time.Now()

	var out []ObjectInfo
	var skipped int
	for obj := range m.client.ListObjects(ctx, m.cfg.Connection.BucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			err := TranslateError(obj.Err)
			m.observe("list", prefix, start, err, 0)
			return nil, err
		}
		if !hasExtension(obj.Key, m.cfg.extensions()) {
			skipped++
			continue
		}
		out = append(out, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	if skipped > 0 {
		m.logInfo(ctx, "skipped objects without an NDJSON extension", map[string]interface{}{
			"bucket":  m.cfg.Connection.BucketName,
			"prefix":  prefix,
			"skipped": skipped,
		})
	}
	m.observe("list", prefix, start, nil, int64(len(out)))
	return out, nil
}

// Open returns a streaming reader for key. The object is stat'ed first so a
// missing key fails here rather than on the first Read.
func (m *MinioClient) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()

	obj, err := m.client.GetObject(ctx, m.cfg.Connection.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		err = TranslateError(err)
		m.observe("open", key, start, err, 0)
		return nil, err
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		err = TranslateError(err)
		m.logWarn(ctx, "failed to stat object", err, map[string]interface{}{"key": key})
		m.observe("open", key, start, err, 0)
		return nil, err
	}

	m.observe("open", key, start, nil, info.Size)
	return obj, nil
}

// observe reports a finished list or open against the configured bucket. For
// "list" target is the prefix and size counts the matching NDJSON objects;
// for "open" target is the object key and size is its byte length.
func (m *MinioClient) observe(operation, target string, start time.Time, err error, size int64) {
	if m == nil || m.observer == nil {
		return
	}
	m.observer.ObserveOperation(observability.OperationContext{
		Component:   "minio",
		Operation:   operation,
		Resource:    m.cfg.Connection.BucketName,
		SubResource: target,
		Duration:    time.Since(start),
		Error:       err,
		Size:        size,
	})
}

func hasExtension(key string, exts []string) bool {
	lower := strings.ToLower(key)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
