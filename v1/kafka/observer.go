package kafka

import (
	"time"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
// The resource is the topic and the sub-resource the consumer group.
func (k *KafkaClient) observeOperation(operation string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if k == nil || k.observer == nil {
		return
	}
	k.observer.ObserveOperation(observability.OperationContext{
		Component:   "kafka",
		Operation:   operation,
		Resource:    k.cfg.Topic,
		SubResource: k.cfg.GroupID,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}
