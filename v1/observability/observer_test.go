package observability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserverFuncForwardsContext(t *testing.T) {
	var got OperationContext
	var obs Observer = ObserverFunc(func(ctx OperationContext) { got = ctx })

	obs.ObserveOperation(OperationContext{Component: "vectorize", Operation: "query_vectors", Resource: "docs"})

	assert.Equal(t, "vectorize", got.Component)
	assert.Equal(t, "query_vectors", got.Operation)
	assert.Equal(t, "docs", got.Resource)
}

func TestOperationContextStatus(t *testing.T) {
	assert.Equal(t, "success", OperationContext{}.Status())
	assert.Equal(t, "error", OperationContext{Error: errors.New("boom")}.Status())
}
