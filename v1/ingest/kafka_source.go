package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Aleph-Alpha/cfvectorize/v1/kafka"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// DefaultIdleTimeout ends a Kafka import when no message arrives for this long.
const DefaultIdleTimeout = 10 * time.Second

// KafkaSource decodes each message value as one or more NDJSON records.
// The import ends after maxMessages messages (0 means unbounded) or when
// the topic stays idle for IdleTimeout. Consumed offsets are committed by
// Ack.
type KafkaSource struct {
	reader      kafka.MessageReader
	maxMessages int
	IdleTimeout time.Duration

	mu       sync.Mutex
	consumed int
	pending  []kafka.Message
}

var _ Acker = (*KafkaSource)(nil)

func NewKafkaSource(reader kafka.MessageReader, maxMessages int) *KafkaSource {
	return &KafkaSource{reader: reader, maxMessages: maxMessages, IdleTimeout: DefaultIdleTimeout}
}

func (s *KafkaSource) Next(ctx context.Context) ([]vectorize.Vector, error) {
	for {
		if s.maxMessages > 0 && s.consumed >= s.maxMessages {
			return nil, io.EOF
		}

		fetchCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.IdleTimeout > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, s.IdleTimeout)
		}
		msg, err := s.reader.Fetch(fetchCtx)
		cancel()
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return nil, io.EOF
			}
			return nil, err
		}

		s.mu.Lock()
		s.consumed++
		s.pending = append(s.pending, msg)
		s.mu.Unlock()

		vectors, err := vectorize.DecodeNDJSON(bytes.NewReader(msg.Value))
		if err != nil {
			return nil, fmt.Errorf("kafka %s[%d]@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
		}
		if len(vectors) > 0 {
			return vectors, nil
		}
	}
}

// Ack commits every message returned so far.
func (s *KafkaSource) Ack(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	return s.reader.Commit(ctx, pending...)
}

func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
