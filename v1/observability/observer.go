package observability

import "time"

// Observer receives a notification for every completed client operation.
// Implementations must be safe for concurrent use; clients call
// ObserveOperation from whichever goroutine performed the operation.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the client that performed the operation, e.g. "vectorize" or "minio".
	Component string

	// Operation is the logical operation name, e.g. "query_vectors".
	Operation string

	// Resource is the primary target (index name, bucket, collection, topic).
	Resource string

	// SubResource is an optional secondary target (namespace, object key, property name).
	SubResource string

	// Duration is the wall-clock time of the operation including retries.
	Duration time.Duration

	// Error is the final error, or nil on success.
	Error error

	// Size is a count or byte size relevant to the operation (vectors written, bytes read).
	Size int64

	// Metadata carries operation-specific details such as the attempt count.
	Metadata map[string]interface{}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}

// Status returns "success" or "error" depending on whether the operation failed.
func (c OperationContext) Status() string {
	if c.Error != nil {
		return "error"
	}
	return "success"
}
