package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

func TestObserveOperationCountsByStatus(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	m.ObserveOperation(observability.OperationContext{
		Component: "vectorize",
		Operation: "insert_vectors",
		Duration:  20 * time.Millisecond,
		Size:      2,
		Metadata:  map[string]interface{}{"retries": 1},
	})
	m.ObserveOperation(observability.OperationContext{
		Component: "vectorize",
		Operation: "insert_vectors",
		Error:     errors.New("boom"),
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("vectorize", "insert_vectors", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("vectorize", "insert_vectors", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operationSize.WithLabelValues("vectorize", "insert_vectors")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retriesTotal.WithLabelValues("insert_vectors")))
}

func TestRequestMetrics(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	m.IncrementRequests("GET /indexes", "200")
	m.IncrementRequests("GET /indexes", "200")
	m.RecordRequestDuration(time.Now(), "GET /indexes")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET /indexes", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}

func TestHandlerExposesServiceLabel(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "vectorize-api", Namespace: "cfv"})
	m.IncrementRetries("query_vectors")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cfv_retries_total{operation="query_vectors",service="vectorize-api"} 1`), body)
}

func TestCreateCounterRegistersOnRegistry(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	c := m.CreateCounter("imported_vectors_total", "Imported vectors", []string{"index"})
	c.WithLabelValues("docs").Add(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.WithLabelValues("docs")))
	assert.Panics(t, func() { m.CreateCounter("imported_vectors_total", "dup", []string{"index"}) })
}

func TestNewConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("METRICS_ADDRESS", "")
	t.Setenv("METRICS_SERVICE_NAME", "")
	t.Setenv("METRICS_ENABLE_DEFAULT_COLLECTORS", "false")

	cfg := NewConfigFromEnv()

	assert.Equal(t, DefaultMetricsAddress, cfg.Address)
	assert.Equal(t, "cfvectorize", cfg.ServiceName)
	assert.False(t, cfg.EnableDefaultCollectors)
}
