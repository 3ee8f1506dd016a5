package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// Point is a stored point with its dense vector and payload.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// ScrollPage is one page of a scroll. NextOffset is empty on the last page.
type ScrollPage struct {
	Points     []Point
	NextOffset string
}

// Collection describes a source collection.
type Collection struct {
	Name       string
	Status     string
	VectorSize int
	Distance   string
	Points     uint64
}

// Scroller is the read-only view used by the ingest source.
type Scroller interface {
	GetCollection(ctx context.Context, name string) (*Collection, error)
	Scroll(ctx context.Context, collection, offset string, limit uint32) (*ScrollPage, error)
}

var _ Scroller = (*QdrantClient)(nil)

// GetCollection returns vector size, distance and point count of a collection.
func (c *QdrantClient) GetCollection(ctx context.Context, name string) (*Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	start := time.Now()

	info, err := c.api.GetCollectionInfo(ctx, name)
	c.observeOperation("get_collection", name, time.Since(start), err, 0)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to get collection '%s': %w", name, err)
	}

	size, distance := extractVectorDetails(info, c.cfg.VectorName)
	return &Collection{
		Name:       name,
		Status:     info.GetStatus().String(),
		VectorSize: size,
		Distance:   distance,
		Points:     derefUint64(info.PointsCount),
	}, nil
}

// Scroll reads up to limit points after offset (empty for the first page).
// One extra point is requested to learn whether another page follows.
func (c *QdrantClient) Scroll(ctx context.Context, collection, offset string, limit uint32) (*ScrollPage, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	if limit == 0 {
		return nil, fmt.Errorf("scroll limit must be greater than 0")
	}
	start := time.Now()

	req := &qdrant.ScrollPoints{
		CollectionName: collection,
		Limit:          qdrant.PtrOf(limit + 1),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	}
	if offset != "" {
		req.Offset = parsePointID(offset)
	}

	points, err := c.api.Scroll(ctx, req)
	if err != nil {
		c.observeOperation("scroll", collection, time.Since(start), err, 0)
		return nil, fmt.Errorf("[Qdrant] scroll '%s' failed: %w", collection, err)
	}

	page := &ScrollPage{}
	if uint32(len(points)) > limit {
		next, err := pointIDString(points[limit].GetId())
		if err != nil {
			return nil, err
		}
		page.NextOffset = next
		points = points[:limit]
	}

	page.Points = make([]Point, 0, len(points))
	for _, p := range points {
		id, err := pointIDString(p.GetId())
		if err != nil {
			return nil, err
		}
		vec := denseVector(p.GetVectors(), c.cfg.VectorName)
		if vec == nil {
			return nil, fmt.Errorf("[Qdrant] point %s in '%s' has no dense vector", id, collection)
		}
		page.Points = append(page.Points, Point{
			ID:      id,
			Vector:  vec,
			Payload: convertPayload(p.GetPayload()),
		})
	}

	c.observeOperation("scroll", collection, time.Since(start), nil, int64(len(page.Points)))
	return page, nil
}
