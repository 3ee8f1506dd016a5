package vectorize

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/cfvectorize/v1/vectordb"
)

const (
	// MaxBatchSize is the largest number of vectors sent in one write.
	MaxBatchSize = 1000

	maxConcurrentSearches = 10
)

// VectorDBAdapter implements vectordb.Service on top of a Client.
// Collections are indexes; every call is scoped to the adapter's namespace
// unless a request names its own.
type VectorDBAdapter struct {
	client    *Client
	namespace string
	metric    Metric
}

var _ vectordb.Service = (*VectorDBAdapter)(nil)

// NewVectorDBAdapter wraps client. namespace may be empty.
func NewVectorDBAdapter(client *Client, namespace string) *VectorDBAdapter {
	return &VectorDBAdapter{client: client, namespace: namespace, metric: MetricCosine}
}

// WithMetric sets the metric used by EnsureCollection. Defaults to cosine.
func (a *VectorDBAdapter) WithMetric(m Metric) *VectorDBAdapter {
	a.metric = m
	return a
}

func (a *VectorDBAdapter) Search(ctx context.Context, requests ...vectordb.SearchRequest) ([][]vectordb.SearchResult, error) {
	results := make([][]vectordb.SearchResult, len(requests))
	errs := make([]error, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSearches)
	for i, req := range requests {
		g.Go(func() error {
			res, err := a.search(gctx, req)
			if err != nil {
				errs[i] = fmt.Errorf("search request %d (%s): %w", i, req.CollectionName, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

func (a *VectorDBAdapter) search(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	filter, err := ConvertFilterSet(req.Filters)
	if err != nil {
		return nil, err
	}
	ns := req.Namespace
	if ns == "" {
		ns = a.namespace
	}

	res, err := a.client.QueryVectors(ctx, req.CollectionName, QueryRequest{
		Vector:         toFloat64(req.Vector),
		TopK:           req.TopK,
		Filter:         filter,
		Namespace:      ns,
		ReturnMetadata: ReturnMetadataAll,
		ReturnValues:   req.WithVectors,
	})
	if err != nil {
		return nil, err
	}

	out := make([]vectordb.SearchResult, 0, len(res.Matches))
	for _, m := range res.Matches {
		out = append(out, vectordb.SearchResult{
			ID:             m.ID,
			Score:          float32(m.Score),
			Payload:        m.Metadata,
			Vector:         toFloat32(m.Values),
			Namespace:      m.Namespace,
			CollectionName: req.CollectionName,
		})
	}
	return out, nil
}

// Insert upserts inputs in batches of MaxBatchSize.
func (a *VectorDBAdapter) Insert(ctx context.Context, collectionName string, inputs []vectordb.EmbeddingInput) error {
	if len(inputs) == 0 {
		return nil
	}
	for start := 0; start < len(inputs); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(inputs))
		batch := make([]Vector, 0, end-start)
		for _, in := range inputs[start:end] {
			batch = append(batch, Vector{
				ID:        in.ID,
				Values:    toFloat64(in.Vector),
				Metadata:  in.Payload,
				Namespace: in.Namespace,
			})
		}
		if _, err := a.client.UpsertVectors(ctx, collectionName, batch, a.namespace); err != nil {
			return fmt.Errorf("insert batch starting at %d: %w", start, err)
		}
	}
	return nil
}

func (a *VectorDBAdapter) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := a.client.DeleteVectors(ctx, collection, ids)
	return err
}

func (a *VectorDBAdapter) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	_, err := a.client.GetIndex(ctx, name)
	if err == nil {
		return nil
	}
	if !IsNotFound(err) {
		return err
	}
	if vectorSize > MaxDimensions {
		return invalid("dimensions", "must be between %d and %d, got %d", MinDimensions, MaxDimensions, vectorSize)
	}
	_, err = a.client.CreateIndex(ctx, CreateIndexRequest{
		Name:       name,
		Dimensions: int(vectorSize),
		Metric:     a.metric,
	})
	return err
}

func (a *VectorDBAdapter) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	idx, err := a.client.GetIndex(ctx, name)
	if err != nil {
		return nil, err
	}
	info, err := a.client.GetIndexInfo(ctx, name)
	if err != nil {
		return nil, err
	}
	count := uint64(max(info.VectorCount, 0))
	return &vectordb.Collection{
		Name:        idx.Name,
		Status:      "ready",
		VectorSize:  idx.Config.Dimensions,
		Distance:    string(idx.Config.Metric),
		VectorCount: count,
		PointCount:  count,
	}, nil
}

func (a *VectorDBAdapter) ListCollections(ctx context.Context) ([]string, error) {
	indexes, err := a.client.ListIndexes(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		names = append(names, idx.Name)
	}
	return names, nil
}
