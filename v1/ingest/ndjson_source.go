package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// NDJSONSource streams vectors from newline-delimited JSON. Blank lines are
// skipped.
type NDJSONSource struct {
	name      string
	dec       *vectorize.NDJSONDecoder
	closer    io.Closer
	batchSize int
	done      bool
}

// NewNDJSONSource reads r in batches of batchSize records. If r is an
// io.Closer it is closed by Close.
func NewNDJSONSource(r io.Reader, batchSize int) *NDJSONSource {
	return newNamedNDJSONSource("ndjson", r, batchSize)
}

func newNamedNDJSONSource(name string, r io.Reader, batchSize int) *NDJSONSource {
	if batchSize <= 0 {
		batchSize = DefaultSourceBatch
	}
	s := &NDJSONSource{name: name, dec: vectorize.NewNDJSONDecoder(r), batchSize: batchSize}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *NDJSONSource) Next(ctx context.Context) ([]vectorize.Vector, error) {
	if s.done {
		return nil, io.EOF
	}
	batch := make([]vectorize.Vector, 0, s.batchSize)
	for len(batch) < s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := s.dec.Next()
		if errors.Is(err, io.EOF) {
			s.done = true
			break
		}
		if err != nil {
			s.done = true
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		batch = append(batch, v)
	}
	if len(batch) == 0 {
		return nil, io.EOF
	}
	return batch, nil
}

func (s *NDJSONSource) Close() error {
	s.done = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
