package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// DefaultConcurrency is the number of batches written in parallel when
// Importer.Concurrency is zero.
const DefaultConcurrency = 4

// Writer is the part of *vectorize.Client the importer needs.
type Writer interface {
	InsertVectors(ctx context.Context, index string, vectors []vectorize.Vector, namespace string) (*vectorize.MutationResult, error)
	UpsertVectors(ctx context.Context, index string, vectors []vectorize.Vector, namespace string) (*vectorize.MutationResult, error)
}

var _ Writer = (*vectorize.Client)(nil)

// Logger is the logging interface used by the importer.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Importer copies vectors from a Source into a Vectorize index.
//
// Example:
//
//	imp := &ingest.Importer{Client: client, Index: "docs", Namespace: "text", Upsert: true}
//	report, err := imp.Run(ctx, ingest.NewNDJSONSource(f, 0))
type Importer struct {
	Client    Writer
	Index     string
	Namespace string

	// Upsert selects upsert instead of insert.
	Upsert bool

	// BatchSize is the number of vectors per write, at most vectorize.MaxBatchSize.
	BatchSize int

	// Concurrency bounds the writes in flight.
	Concurrency int

	Logger   Logger
	Observer observability.Observer
}

// Report summarizes a completed import.
type Report struct {
	Batches int `json:"batches"`
	Vectors int `json:"vectors"`

	// MutationIDs are in batch order.
	MutationIDs []string `json:"mutationIds"`
}

type mutation struct {
	batch int
	id    string
}

// Run drains src and writes its vectors. The first failed write cancels
// the remaining ones; the partial report is returned with the error.
// Sources implementing Acker are acknowledged only after every write
// succeeded. src is not closed.
func (im *Importer) Run(ctx context.Context, src Source) (*Report, error) {
	if err := im.validate(); err != nil {
		return nil, err
	}
	batchSize := im.BatchSize
	if batchSize == 0 {
		batchSize = vectorize.MaxBatchSize
	}
	concurrency := im.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	start := time.Now()
	var (
		mu        sync.Mutex
		report    Report
		mutations []mutation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	batchNo := 0
	dispatch := func(batch []vectorize.Vector) {
		n := batchNo
		batchNo++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := im.write(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d (%d vectors): %w", n, len(batch), err)
			}
			mu.Lock()
			report.Batches++
			report.Vectors += len(batch)
			if res != nil && res.MutationID != "" {
				mutations = append(mutations, mutation{batch: n, id: res.MutationID})
			}
			mu.Unlock()
			if im.Logger != nil {
				im.Logger.DebugWithContext(gctx, "batch written", nil, map[string]interface{}{
					"index":   im.Index,
					"batch":   n,
					"vectors": len(batch),
				})
			}
			return nil
		})
	}

	var buf []vectorize.Vector
	var readErr error
	for gctx.Err() == nil {
		vectors, err := src.Next(gctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = err
			break
		}
		buf = append(buf, vectors...)
		for len(buf) >= batchSize && gctx.Err() == nil {
			batch := make([]vectorize.Vector, batchSize)
			copy(batch, buf)
			buf = buf[batchSize:]
			dispatch(batch)
		}
	}
	if len(buf) > 0 && readErr == nil && gctx.Err() == nil {
		dispatch(buf)
	}

	err := g.Wait()
	if err == nil {
		err = readErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		if acker, ok := src.(Acker); ok {
			err = acker.Ack(ctx)
		}
	}

	sort.Slice(mutations, func(i, j int) bool { return mutations[i].batch < mutations[j].batch })
	for _, m := range mutations {
		report.MutationIDs = append(report.MutationIDs, m.id)
	}

	im.observe(time.Since(start), err, &report)
	if im.Logger != nil {
		im.Logger.InfoWithContext(ctx, "import finished", err, map[string]interface{}{
			"index":     im.Index,
			"namespace": im.Namespace,
			"batches":   report.Batches,
			"vectors":   report.Vectors,
		})
	}
	return &report, err
}

func (im *Importer) validate() error {
	if im.Client == nil {
		return fmt.Errorf("ingest: client is required")
	}
	if im.Index == "" {
		return fmt.Errorf("ingest: index is required")
	}
	if im.BatchSize < 0 || im.BatchSize > vectorize.MaxBatchSize {
		return fmt.Errorf("ingest: batch size must be between 1 and %d, got %d", vectorize.MaxBatchSize, im.BatchSize)
	}
	if im.Namespace != "" {
		return vectorize.ValidateNamespace(im.Namespace)
	}
	return nil
}

func (im *Importer) write(ctx context.Context, batch []vectorize.Vector) (*vectorize.MutationResult, error) {
	if im.Upsert {
		return im.Client.UpsertVectors(ctx, im.Index, batch, im.Namespace)
	}
	return im.Client.InsertVectors(ctx, im.Index, batch, im.Namespace)
}

func (im *Importer) observe(d time.Duration, err error, r *Report) {
	if im.Observer == nil {
		return
	}
	im.Observer.ObserveOperation(observability.OperationContext{
		Component:   "ingest",
		Operation:   "import",
		Resource:    im.Index,
		SubResource: im.Namespace,
		Duration:    d,
		Error:       err,
		Size:        int64(r.Vectors),
		Metadata:    map[string]interface{}{"batches": r.Batches},
	})
}
