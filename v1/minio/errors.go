package minio

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
)

var (
	ErrConnectionFailed = errors.New("minio: connection failed")
	ErrBucketNotFound   = errors.New("minio: bucket not found")
	ErrObjectNotFound   = errors.New("minio: object not found")
	ErrAccessDenied     = errors.New("minio: access denied")
)

// TranslateError maps MinIO error responses onto the package's sentinel
// errors, keeping the original error in the chain.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchBucket":
		return fmt.Errorf("%w: %w", ErrBucketNotFound, err)
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrObjectNotFound, err)
	case resp.Code == "AccessDenied" || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}
	return err
}
