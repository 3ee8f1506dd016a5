package vectorize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

func failingServer(t *testing.T, status int, hits *int32) *Client {
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		writeFailure(w, status, 7000, http.StatusText(status))
	})
}

func TestRetryableStatusesUseAllAttempts(t *testing.T) {
	for _, status := range DefaultRetryableStatuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var hits int32
			client := failingServer(t, status, &hits)

			_, err := client.ListIndexes(context.Background())
			apiErr, ok := AsAPIError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, status, apiErr.StatusCode)
			assert.Equal(t, int32(4), atomic.LoadInt32(&hits))
		})
	}
}

func TestNonRetryableStatusesUseOneAttempt(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 409, 422, 429, 501} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var hits int32
			client := failingServer(t, status, &hits)

			_, err := client.GetIndex(context.Background(), "docs")
			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, status, apiErr.StatusCode)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
		})
	}
}

func TestRecoversAfterTransientFailure(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			writeFailure(w, http.StatusServiceUnavailable, 7001, "busy")
			return
		}
		writeResult(t, w, []Index{{Name: "docs"}})
	})

	indexes, err := client.ListIndexes(context.Background())
	require.NoError(t, err)
	assert.Len(t, indexes, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestCreateOperationsAreNotRetried(t *testing.T) {
	var hits int32
	client := failingServer(t, http.StatusServiceUnavailable, &hits)
	ctx := context.Background()

	_, err := client.CreateIndex(ctx, CreateIndexRequest{Name: "docs", Dimensions: 32, Metric: MetricCosine})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	_, err = client.CreateMetadataIndex(ctx, "docs", MetadataIndex{PropertyName: "lang", IndexType: IndexTypeString})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestMaxAttemptsOneDisablesRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeFailure(w, http.StatusBadGateway, 1, "bad gateway")
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL).WithMaxAttempts(1))
	require.NoError(t, err)

	_, err = client.ListIndexes(context.Background())
	_, ok := AsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestTransportErrorsAreRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var attempts int32
	client, err := NewClient(testConfig(url))
	require.NoError(t, err)
	client.WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		atomic.StoreInt32(&attempts, int32(op.Metadata["attempts"].(int)))
	}))

	_, err = client.ListIndexes(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.Equal(t, int32(4), atomic.LoadInt32(&attempts))
}

func TestCancellationStopsRetrying(t *testing.T) {
	var hits int32
	ctx, cancel := context.WithCancel(context.Background())
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		cancel()
		writeFailure(w, http.StatusServiceUnavailable, 1, "busy")
	})

	_, err := client.ListIndexes(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRetryAfterIsHonored(t *testing.T) {
	var (
		mu    sync.Mutex
		times []time.Time
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		n := len(times)
		mu.Unlock()
		if n == 1 {
			w.Header().Set("Retry-After", "1")
			writeFailure(w, http.StatusServiceUnavailable, 1, "slow down")
			return
		}
		writeResult(t, w, []Index{})
	})

	_, err := client.ListIndexes(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, times, 2)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), 900*time.Millisecond)
}

func TestRetriesAreLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := NewMockLogger(ctrl)

	var hits int32
	client := failingServer(t, http.StatusInternalServerError, &hits)
	client.WithLogger(log)

	log.EXPECT().DebugWithContext(gomock.Any(), "retrying vectorize request", gomock.Any(), gomock.Any()).Times(3)
	log.EXPECT().WarnWithContext(gomock.Any(), "vectorize request failed after retries", gomock.Any(), gomock.Any()).Times(1)

	_, err := client.GetIndexInfo(context.Background(), "docs")
	require.Error(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&hits))
}

func TestObserverReceivesOperation(t *testing.T) {
	var got []observability.OperationContext
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(t, w, QueryResult{})
	})
	client.WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		got = append(got, op)
	}))

	_, err := client.QueryVectors(context.Background(), "docs", QueryRequest{Vector: []float64{1}, Namespace: "text"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "vectorize", got[0].Component)
	assert.Equal(t, "query_vectors", got[0].Operation)
	assert.Equal(t, "docs", got[0].Resource)
	assert.Equal(t, "text", got[0].SubResource)
	assert.NoError(t, got[0].Error)
	assert.Positive(t, got[0].Size)
	assert.Equal(t, 0, got[0].Metadata["retries"])
}
