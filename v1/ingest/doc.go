// Package ingest bulk-imports vectors into a Vectorize index.
//
// A Source produces batches of vectors from an NDJSON stream, from NDJSON
// objects in a MinIO bucket, from a Qdrant collection, or from a Kafka
// topic. The Importer re-chunks them to at most vectorize.MaxBatchSize
// vectors per request and writes the chunks concurrently:
//
//	f, _ := os.Open("vectors.ndjson")
//	src := ingest.NewNDJSONSource(f, 0)
//	defer src.Close()
//
//	imp := &ingest.Importer{Client: client, Index: "docs", Namespace: "text", Concurrency: 8}
//	report, err := imp.Run(ctx, src)
//
// Migrating from Qdrant keeps point IDs and turns payloads into metadata:
//
//	src := ingest.NewQdrantSource(qdrantClient, "articles", 256)
//
// Kafka sources commit offsets only after the whole import succeeded, so
// a failed run is replayed by the consumer group.
package ingest
