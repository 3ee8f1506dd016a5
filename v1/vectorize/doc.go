// Package vectorize is a client for the Cloudflare Vectorize v2 REST API.
//
// The client covers index management, vector writes (insert and upsert, as
// structured records or raw NDJSON), similarity queries, lookups and deletes
// by id, id listing, and metadata indexes. Search, storage and index
// lifecycle all run remotely; the client builds requests, validates inputs,
// encodes NDJSON, and retries idempotent calls.
//
// # Configuration
//
//	cfg := vectorize.FromAccount(os.Getenv("CLOUDFLARE_ACCOUNT_ID")).
//	    WithBearerToken(os.Getenv("CLOUDFLARE_API_TOKEN"))
//	client, err := vectorize.NewClient(cfg)
//
// NewConfigFromEnv reads the same values from the environment.
//
// # Writing and querying
//
//	vectors := []vectorize.Vector{
//	    {ID: "doc-1", Values: embedding1, Metadata: map[string]any{"lang": "en"}},
//	    {ID: "doc-2", Values: embedding2},
//	}
//	mut, err := client.InsertVectors(ctx, "docs", vectors, "text")
//
//	res, err := client.QueryVectors(ctx, "docs", vectorize.QueryRequest{
//	    Vector:         query,
//	    TopK:           3,
//	    Namespace:      "text",
//	    ReturnMetadata: vectorize.ReturnMetadataAll,
//	})
//
// A namespace passed to a write applies to records without their own; a
// record's namespace is never overwritten.
//
// # Errors
//
// Every failure is one of three kinds:
//
//   - *ValidationError: an input failed a client-side check; nothing was sent.
//   - *APIError: the service answered with a non-2xx status or success=false.
//   - *TransportError: no response was received.
//
// Use errors.As, AsAPIError, IsValidationError, IsTransportError or
// IsNotFound to tell them apart.
//
// # Retries
//
// Idempotent operations are retried on transport errors and on the statuses
// in RetryConfig.RetryableStatuses (500, 502, 503, 504 by default) with
// capped exponential backoff and jitter, up to RetryConfig.MaxAttempts
// attempts in total. A Retry-After header replaces the computed delay.
// CreateIndex and CreateMetadataIndex are attempted once. Cancelling the
// context stops retrying immediately. After the last attempt the final
// error is returned with its kind intact.
//
// Vector dimensions are not compared with the index on the client; the
// service rejects mismatches with an *APIError.
//
// # vectordb
//
// NewVectorDBAdapter exposes a client as a vectordb.Service and converts
// vectordb filter sets to metadata filters.
package vectorize
