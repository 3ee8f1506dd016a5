package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Message is one consumed record.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Time      time.Time

	raw kafka.Message
}

// MessageReader is the consumer view the ingest source needs.
type MessageReader interface {
	// Fetch blocks until a message is available or ctx is done.
	Fetch(ctx context.Context) (Message, error)

	// Commit marks messages as processed. Without a consumer group it does nothing.
	Commit(ctx context.Context, msgs ...Message) error

	Close() error
}

// Fetch reads the next message without committing it.
func (k *KafkaClient) Fetch(ctx context.Context) (Message, error) {
	start := time.Now()
	m, err := k.reader.FetchMessage(ctx)
	k.observeOperation("fetch", time.Since(start), err, int64(len(m.Value)), nil)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Time:      m.Time,
		raw:       m,
	}, nil
}

// Commit commits the offsets of msgs for the configured consumer group.
func (k *KafkaClient) Commit(ctx context.Context, msgs ...Message) error {
	if k.cfg.GroupID == "" || len(msgs) == 0 {
		return nil
	}
	raw := make([]kafka.Message, len(msgs))
	for i, m := range msgs {
		raw[i] = m.raw
	}

	start := time.Now()
	err := k.reader.CommitMessages(ctx, raw...)
	k.observeOperation("commit", time.Since(start), err, int64(len(msgs)), map[string]interface{}{
		"last_offset": msgs[len(msgs)-1].Offset,
	})
	if err != nil && k.logger != nil {
		k.logger.WarnWithContext(ctx, "kafka commit failed", err, map[string]interface{}{
			"topic":    k.cfg.Topic,
			"group_id": k.cfg.GroupID,
			"messages": len(msgs),
		})
	}
	return err
}
