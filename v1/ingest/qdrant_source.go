package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/Aleph-Alpha/cfvectorize/v1/qdrant"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// QdrantSource migrates the points of a Qdrant collection. Point payloads
// become vector metadata.
type QdrantSource struct {
	scroller   qdrant.Scroller
	collection string
	batch      uint32
	offset     string
	done       bool
}

// NewQdrantSource scrolls collection in pages of batch points.
func NewQdrantSource(scroller qdrant.Scroller, collection string, batch int) *QdrantSource {
	if batch <= 0 {
		batch = DefaultSourceBatch
	}
	return &QdrantSource{scroller: scroller, collection: collection, batch: uint32(batch)}
}

func (s *QdrantSource) Next(ctx context.Context) ([]vectorize.Vector, error) {
	if s.done {
		return nil, io.EOF
	}
	page, err := s.scroller.Scroll(ctx, s.collection, s.offset, s.batch)
	if err != nil {
		return nil, err
	}
	s.offset = page.NextOffset
	s.done = page.NextOffset == ""
	if len(page.Points) == 0 {
		return nil, io.EOF
	}

	out := make([]vectorize.Vector, 0, len(page.Points))
	for _, p := range page.Points {
		if len(p.Vector) == 0 {
			return nil, fmt.Errorf("qdrant point %s has no vector", p.ID)
		}
		values := make([]float64, len(p.Vector))
		for i, f := range p.Vector {
			values[i] = float64(f)
		}
		out = append(out, vectorize.Vector{ID: p.ID, Values: values, Metadata: p.Payload})
	}
	return out, nil
}

func (s *QdrantSource) Close() error {
	s.done = true
	return nil
}
