package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/cfvectorize/v1/kafka"
	"github.com/Aleph-Alpha/cfvectorize/v1/minio"
	"github.com/Aleph-Alpha/cfvectorize/v1/qdrant"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

func drain(t *testing.T, src Source) [][]vectorize.Vector {
	t.Helper()
	var batches [][]vectorize.Vector
	for {
		b, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return batches
		}
		require.NoError(t, err)
		batches = append(batches, b)
	}
}

func TestNDJSONSourceBatches(t *testing.T) {
	input := `{"id":"a","values":[1,2]}

{"id":"b","values":[3,4],"namespace":"img"}
{"id":"c","values":[5,6],"metadata":{"k":"v"}}
`
	batches := drain(t, NewNDJSONSource(strings.NewReader(input), 2))
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 1)
	assert.Equal(t, "img", batches[0][1].Namespace)
	assert.Equal(t, map[string]any{"k": "v"}, batches[1][0].Metadata)
}

func TestNDJSONSourceReportsLine(t *testing.T) {
	src := NewNDJSONSource(strings.NewReader("{\"id\":\"a\",\"values\":[1]}\nnot json\n"), 10)
	_, err := src.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestNDJSONSourceRejectsNonObjectLines(t *testing.T) {
	for _, line := range []string{"null", `"x"`, "42", "[1]"} {
		src := NewNDJSONSource(strings.NewReader("{\"id\":\"a\",\"values\":[1]}\n"+line+"\n"), 10)
		_, err := src.Next(context.Background())
		require.Error(t, err, line)
		assert.True(t, vectorize.IsValidationError(err), line)
		assert.Contains(t, err.Error(), "line 2", line)
		assert.Contains(t, err.Error(), "ndjson: vectorize: invalid ndjson", line)
	}
}

func TestNDJSONSourceEmpty(t *testing.T) {
	_, err := NewNDJSONSource(strings.NewReader("\n\n"), 0).Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

type closeTracker struct {
	io.Reader
	closed *int
}

func (c closeTracker) Close() error {
	*c.closed++
	return nil
}

type fakeObjects struct {
	objects map[string]string
	keys    []string
	closed  int
}

func (f *fakeObjects) ListObjects(_ context.Context, prefix string) ([]minio.ObjectInfo, error) {
	var out []minio.ObjectInfo
	for _, k := range f.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, minio.ObjectInfo{Key: k})
		}
	}
	return out, nil
}

func (f *fakeObjects) Open(_ context.Context, key string) (io.ReadCloser, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, minio.ErrObjectNotFound
	}
	return closeTracker{Reader: strings.NewReader(body), closed: &f.closed}, nil
}

func TestMinioSourceReadsObjectsInOrder(t *testing.T) {
	objs := &fakeObjects{
		keys: []string{"export/a.ndjson", "export/b.jsonl", "other/c.ndjson"},
		objects: map[string]string{
			"export/a.ndjson": "{\"id\":\"1\",\"values\":[1]}\n{\"id\":\"2\",\"values\":[2]}\n",
			"export/b.jsonl":  "{\"id\":\"3\",\"values\":[3]}\n",
		},
	}
	src := NewMinioSource(objs, "export/", 10)
	batches := drain(t, src)
	require.NoError(t, src.Close())

	require.Len(t, batches, 2)
	assert.Equal(t, "1", batches[0][0].ID)
	assert.Equal(t, "3", batches[1][0].ID)
	assert.Equal(t, 2, objs.closed)
}

func TestMinioSourceOpenError(t *testing.T) {
	objs := &fakeObjects{keys: []string{"gone.ndjson"}, objects: map[string]string{}}
	_, err := NewMinioSource(objs, "", 10).Next(context.Background())
	assert.ErrorIs(t, err, minio.ErrObjectNotFound)
}

type fakeScroller struct {
	points []qdrant.Point
	calls  int
}

func (f *fakeScroller) GetCollection(context.Context, string) (*qdrant.Collection, error) {
	return &qdrant.Collection{Points: uint64(len(f.points))}, nil
}

func (f *fakeScroller) Scroll(_ context.Context, _ string, offset string, limit uint32) (*qdrant.ScrollPage, error) {
	f.calls++
	start := 0
	for i, p := range f.points {
		if p.ID == offset {
			start = i
		}
	}
	end := start + int(limit)
	page := &qdrant.ScrollPage{}
	if end < len(f.points) {
		page.NextOffset = f.points[end].ID
	} else {
		end = len(f.points)
	}
	page.Points = f.points[start:end]
	return page, nil
}

func TestQdrantSourceConvertsPoints(t *testing.T) {
	sc := &fakeScroller{}
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		sc.points = append(sc.points, qdrant.Point{ID: id, Vector: []float32{0.5, 1}, Payload: map[string]any{"src": id}})
	}

	batches := drain(t, NewQdrantSource(sc, "articles", 2))
	require.Len(t, batches, 3)
	assert.Equal(t, 3, sc.calls)
	assert.Equal(t, vectorize.Vector{ID: "1", Values: []float64{0.5, 1}, Metadata: map[string]any{"src": "1"}}, batches[0][0])
	assert.Equal(t, "5", batches[2][0].ID)
}

type fakeMessages struct {
	values    []string
	committed []kafka.Message
	offset    int64
}

func (f *fakeMessages) Fetch(ctx context.Context) (kafka.Message, error) {
	if len(f.values) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	v := f.values[0]
	f.values = f.values[1:]
	f.offset++
	return kafka.Message{Topic: "vectors", Offset: f.offset, Value: []byte(v)}, nil
}

func (f *fakeMessages) Commit(_ context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeMessages) Close() error { return nil }

func TestKafkaSourceStopsWhenIdle(t *testing.T) {
	msgs := &fakeMessages{values: []string{
		"{\"id\":\"a\",\"values\":[1]}\n{\"id\":\"b\",\"values\":[2]}",
		"",
		"{\"id\":\"c\",\"values\":[3]}",
	}}
	src := NewKafkaSource(msgs, 0)
	src.IdleTimeout = 20 * time.Millisecond

	batches := drain(t, src)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 2)

	require.NoError(t, src.Ack(context.Background()))
	assert.Len(t, msgs.committed, 3)
}

func TestKafkaSourceMaxMessages(t *testing.T) {
	msgs := &fakeMessages{values: []string{
		`{"id":"a","values":[1]}`,
		`{"id":"b","values":[2]}`,
	}}
	batches := drain(t, NewKafkaSource(msgs, 1))
	require.Len(t, batches, 1)
	assert.Equal(t, "a", batches[0][0].ID)
	assert.Len(t, msgs.values, 1)
}

func TestKafkaSourceBadMessage(t *testing.T) {
	_, err := NewKafkaSource(&fakeMessages{values: []string{"{oops"}}, 0).Next(context.Background())
	require.Error(t, err)
	assert.True(t, vectorize.IsValidationError(err))
	assert.Contains(t, err.Error(), "vectors[0]@1")
}
