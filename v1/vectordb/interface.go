package vectordb

import "context"

// Service is a backend-neutral view of a vector store: collections of dense
// vectors with a metadata payload, similarity search with metadata filters,
// and id-based deletes.
//
// The Vectorize implementation is vectorize.NewVectorDBAdapter, which maps
// collections to indexes.
//
//	svc := vectorize.NewVectorDBAdapter(client, "tenant-a")
//	results, err := svc.Search(ctx,
//	    vectordb.SearchRequest{CollectionName: "docs", Vector: q1, TopK: 10},
//	    vectordb.SearchRequest{CollectionName: "docs", Vector: q2, TopK: 5, Filters: filters},
//	)
type Service interface {
	// Search runs every request and returns one result slice per request,
	// in request order. Failed requests leave a nil slice and contribute to
	// the joined error.
	Search(ctx context.Context, requests ...SearchRequest) ([][]SearchResult, error)

	// Insert writes embeddings, replacing those with an existing id.
	Insert(ctx context.Context, collectionName string, inputs []EmbeddingInput) error

	// Delete removes embeddings by id.
	Delete(ctx context.Context, collection string, ids []string) error

	// EnsureCollection creates the collection when missing. Calling it for an
	// existing collection is a no-op.
	EnsureCollection(ctx context.Context, name string, vectorSize uint64) error

	// GetCollection returns collection metadata.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// ListCollections returns all collection names.
	ListCollections(ctx context.Context) ([]string, error)
}
