package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/cfvectorize/v1/metrics"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

const upstreamBase = "/accounts/acc/vectorize/v2"

func newVectorizeClient(t *testing.T, url string) *vectorize.Client {
	t.Helper()
	client, err := vectorize.NewClient(vectorize.FromAccount("acc").
		WithBearerToken("token").
		WithBaseURL(url).
		WithRetry(vectorize.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}))
	require.NoError(t, err)
	return client
}

// newFacade starts a fake remote API with upstream and the facade in front of it.
func newFacade(t *testing.T, upstream http.HandlerFunc) (*Server, *httptest.Server) {
	t.Helper()
	remote := httptest.NewServer(upstream)
	t.Cleanup(remote.Close)

	srv := NewServer(DefaultConfig(), newVectorizeClient(t, remote.URL))
	facade := httptest.NewServer(srv.Handler())
	t.Cleanup(facade.Close)
	return srv, facade
}

func remoteResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true, "errors": []any{}, "messages": []any{}, "result": result,
	})
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListIndexesReturnsEnvelope(t *testing.T) {
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, upstreamBase+"/indexes", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		remoteResult(w, []map[string]any{{"name": "docs", "config": map[string]any{"dimensions": 32, "metric": "cosine"}}})
	})

	resp, err := http.Get(facade.URL + "/indexes")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	result := body["result"].([]any)
	require.Len(t, result, 1)
	assert.Equal(t, "docs", result[0].(map[string]any)["name"])
}

func TestCreateIndexValidationError(t *testing.T) {
	var hits int
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) { hits++ })

	resp, err := http.Post(facade.URL+"/indexes", "application/json",
		strings.NewReader(`{"name":"docs","dimensions":2000,"metric":"cosine"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "dimensions")
	details := body["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "dimensions", details[0].(map[string]any)["field"])
	assert.Zero(t, hits)
}

func TestInsertVectorsAppliesNamespace(t *testing.T) {
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, upstreamBase+"/indexes/docs/insert", r.URL.Path)
		assert.Equal(t, "application/x-ndjson", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		assert.Len(t, lines, 2)
		for _, l := range lines {
			var rec map[string]any
			assert.NoError(t, json.Unmarshal([]byte(l), &rec))
			assert.Equal(t, "text", rec["namespace"])
		}
		remoteResult(w, map[string]any{"mutationId": "mut-1"})
	})

	resp, err := http.Post(facade.URL+"/indexes/docs/vectors?namespace=text", "application/json",
		strings.NewReader(`[{"id":"a","values":[1,2]},{"id":"b","values":[3,4]}]`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "mut-1", body["result"].(map[string]any)["mutationId"])
}

func TestUpsertNDJSONBody(t *testing.T) {
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, upstreamBase+"/indexes/docs/upsert", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.Equal(t, "{\"id\":\"a\",\"namespace\":\"keep\",\"values\":[1]}\n", string(raw))
		remoteResult(w, map[string]any{"mutationId": "mut-2"})
	})

	resp, err := http.Post(facade.URL+"/indexes/docs/vectors/upsert?namespace=other", "application/x-ndjson",
		strings.NewReader("{\"id\":\"a\",\"values\":[1],\"namespace\":\"keep\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestNDJSONNonObjectLineIsBadRequest(t *testing.T) {
	var hits int
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) { hits++ })

	resp, err := http.Post(facade.URL+"/indexes/docs/vectors?namespace=text", "application/x-ndjson",
		strings.NewReader("null\n"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "line 1: record must be a JSON object")
	details := body["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "ndjson", details[0].(map[string]any)["field"])
	assert.Zero(t, hits)
}

func TestQueryAndGetVectors(t *testing.T) {
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case upstreamBase + "/indexes/docs/query":
			var q map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&q))
			assert.Equal(t, float64(3), q["topK"])
			remoteResult(w, map[string]any{"count": 1, "matches": []any{map[string]any{"id": "a", "score": 0.9}}})
		case upstreamBase + "/indexes/docs/get_by_ids":
			var ids map[string][]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
			assert.Equal(t, []string{"a", "b"}, ids["ids"])
			remoteResult(w, []any{map[string]any{"id": "a", "values": []float64{1}}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	resp, err := http.Post(facade.URL+"/indexes/docs/vectors/query", "application/json",
		strings.NewReader(`{"vector":[0.1,0.2],"topK":3}`))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["result"].(map[string]any)["count"])

	resp, err = http.Get(facade.URL + "/indexes/docs/vectors?ids=a&ids=b")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestDeleteMetadataIndexRoute(t *testing.T) {
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, upstreamBase+"/indexes/docs/metadata_index/delete", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "lang", body["propertyName"])
		remoteResult(w, map[string]any{"mutationId": "mut-3"})
	})

	req, _ := http.NewRequest(http.MethodDelete, facade.URL+"/indexes/docs/metadata-indexes/lang", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestRemoteErrorStatusIsForwarded(t *testing.T) {
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []any{map[string]any{"code": 3000, "message": "vectorize.index.not_found"}},
		})
	})

	resp, err := http.Get(facade.URL + "/indexes/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "vectorize.index.not_found", body["error"])
	assert.Equal(t, float64(3000), body["details"].([]any)[0].(map[string]any)["code"])
}

func TestTransportErrorIsBadGateway(t *testing.T) {
	remote := httptest.NewServer(http.NotFoundHandler())
	url := remote.URL
	remote.Close()

	facade := httptest.NewServer(NewServer(DefaultConfig(), newVectorizeClient(t, url)).Handler())
	defer facade.Close()

	resp, err := http.Get(facade.URL + "/indexes")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestMalformedBody(t *testing.T) {
	_, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("remote must not be called")
	})

	resp, err := http.Post(facade.URL+"/indexes/docs/vectors/query", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(facade.URL + "/indexes/docs/vectors/list?count=zero")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestRecovererReturns500(t *testing.T) {
	s := NewServer(DefaultConfig(), nil)
	h := s.instrument(s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

type requestRecorder struct {
	metrics.MetricsCollector

	mu     sync.Mutex
	routes []string
	codes  []string
}

func (r *requestRecorder) IncrementRequests(route, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
	r.codes = append(r.codes, status)
}

func (r *requestRecorder) RecordRequestDuration(time.Time, string) {}

func TestRequestIDAndRouteMetrics(t *testing.T) {
	srv, facade := newFacade(t, func(w http.ResponseWriter, r *http.Request) {
		remoteResult(w, map[string]any{"dimensions": 32, "vectorCount": 10})
	})
	collector := &requestRecorder{}
	srv.WithMetrics(collector)

	req, _ := http.NewRequest(http.MethodGet, facade.URL+"/indexes/docs/info", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "req-1", resp.Header.Get(RequestIDHeader))

	resp, err = http.Get(facade.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	collector.mu.Lock()
	defer collector.mu.Unlock()
	assert.Equal(t, []string{"GET /indexes/{index}/info", "GET /healthz"}, collector.routes)
	assert.Equal(t, []string{"200", "200"}, collector.codes)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.NewMetrics(metrics.Config{ServiceName: "facade-test"})
	srv := NewServer(DefaultConfig(), nil).WithMetrics(m).WithMetricsHandler(m.Handler())
	facade := httptest.NewServer(srv.Handler())
	defer facade.Close()

	resp, err := http.Get(facade.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = http.Get(facade.URL + "/metrics")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(raw), `requests_total{route="GET /healthz",service="facade-test",status="200"} 1`)
}

func TestServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(DefaultConfig(), nil)
	require.NoError(t, srv.Serve(context.Background(), ln))

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, srv.Shutdown(context.Background()))
	_, err = http.Get("http://" + ln.Addr().String() + "/healthz")
	assert.Error(t, err)
}
