package ingest

import (
	"context"

	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// Source yields batches of vectors to import. Next returns io.EOF once the
// source is exhausted. A batch may be smaller or larger than the importer's
// BatchSize; the importer re-chunks it.
type Source interface {
	Next(ctx context.Context) ([]vectorize.Vector, error)
	Close() error
}

// Acker is implemented by sources that must confirm consumed input after
// every vector was written, such as a Kafka consumer group.
type Acker interface {
	Ack(ctx context.Context) error
}

// DefaultSourceBatch is the batch size sources use when given zero.
const DefaultSourceBatch = 500
