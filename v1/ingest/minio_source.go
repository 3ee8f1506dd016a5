package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Aleph-Alpha/cfvectorize/v1/minio"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// MinioSource imports every NDJSON object under a prefix, in key order.
type MinioSource struct {
	reader    minio.ObjectReader
	prefix    string
	batchSize int

	keys    []string
	listed  bool
	current *NDJSONSource
}

// NewMinioSource lists objects under prefix on first use.
func NewMinioSource(reader minio.ObjectReader, prefix string, batchSize int) *MinioSource {
	return &MinioSource{reader: reader, prefix: prefix, batchSize: batchSize}
}

func (s *MinioSource) Next(ctx context.Context) ([]vectorize.Vector, error) {
	if !s.listed {
		objects, err := s.reader.ListObjects(ctx, s.prefix)
		if err != nil {
			return nil, fmt.Errorf("list objects under %q: %w", s.prefix, err)
		}
		for _, o := range objects {
			s.keys = append(s.keys, o.Key)
		}
		s.listed = true
	}

	for {
		if s.current == nil {
			if len(s.keys) == 0 {
				return nil, io.EOF
			}
			key := s.keys[0]
			s.keys = s.keys[1:]
			body, err := s.reader.Open(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("open object %q: %w", key, err)
			}
			s.current = newNamedNDJSONSource(key, body, s.batchSize)
		}

		batch, err := s.current.Next(ctx)
		if errors.Is(err, io.EOF) {
			if cerr := s.current.Close(); cerr != nil {
				return nil, cerr
			}
			s.current = nil
			continue
		}
		return batch, err
	}
}

func (s *MinioSource) Close() error {
	s.keys = nil
	if s.current != nil {
		err := s.current.Close()
		s.current = nil
		return err
	}
	return nil
}
