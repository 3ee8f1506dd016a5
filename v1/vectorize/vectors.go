package vectorize

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// InsertVectors adds vectors to an index. Records with an existing id are
// skipped by the remote service, so the call is retried like any idempotent
// operation. namespace, when non-empty, applies to records without their own.
func (c *Client) InsertVectors(ctx context.Context, index string, vectors []Vector, namespace string) (*MutationResult, error) {
	return c.writeVectors(ctx, "insert_vectors", "insert", index, vectors, namespace)
}

// UpsertVectors adds vectors, replacing records with the same id.
func (c *Client) UpsertVectors(ctx context.Context, index string, vectors []Vector, namespace string) (*MutationResult, error) {
	return c.writeVectors(ctx, "upsert_vectors", "upsert", index, vectors, namespace)
}

// InsertNDJSON sends a pre-encoded NDJSON payload. namespace, when non-empty,
// is added to records that lack one.
func (c *Client) InsertNDJSON(ctx context.Context, index string, payload []byte, namespace string) (*MutationResult, error) {
	return c.writeNDJSON(ctx, "insert_vectors", "insert", index, payload, namespace)
}

// UpsertNDJSON is InsertNDJSON with upsert semantics.
func (c *Client) UpsertNDJSON(ctx context.Context, index string, payload []byte, namespace string) (*MutationResult, error) {
	return c.writeNDJSON(ctx, "upsert_vectors", "upsert", index, payload, namespace)
}

func (c *Client) writeVectors(ctx context.Context, operation, action, index string, vectors []Vector, namespace string) (*MutationResult, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	if namespace != "" {
		if err := ValidateNamespace(namespace); err != nil {
			return nil, err
		}
	}
	if err := validateVectors(vectors); err != nil {
		return nil, err
	}
	payload, err := EncodeNDJSON(vectors, namespace)
	if err != nil {
		return nil, err
	}
	return c.sendNDJSON(ctx, operation, action, index, payload, namespace)
}

func (c *Client) writeNDJSON(ctx context.Context, operation, action, index string, payload []byte, namespace string) (*MutationResult, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, invalid("ndjson", "payload is empty")
	}
	if namespace != "" {
		if err := ValidateNamespace(namespace); err != nil {
			return nil, err
		}
		withNS, err := AddNamespaceToNDJSON(payload, namespace)
		if err != nil {
			return nil, err
		}
		payload = withNS
	}
	return c.sendNDJSON(ctx, operation, action, index, payload, namespace)
}

func (c *Client) sendNDJSON(ctx context.Context, operation, action, index string, payload []byte, namespace string) (*MutationResult, error) {
	req := call{
		operation:   operation,
		method:      http.MethodPost,
		path:        c.indexPath(index, action),
		body:        payload,
		contentType: contentTypeNDJSON,
		idempotent:  true,
		index:       index,
		namespace:   namespace,
	}
	var out MutationResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryVectors runs a similarity query.
func (c *Client) QueryVectors(ctx context.Context, index string, q QueryRequest) (*QueryResult, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	if len(q.Vector) == 0 {
		return nil, invalid("vector", "query vector must not be empty")
	}
	if q.TopK == 0 {
		q.TopK = DefaultTopK
	}
	if err := ValidateTopK(q.TopK); err != nil {
		return nil, err
	}
	if q.ReturnMetadata == "" {
		q.ReturnMetadata = ReturnMetadataNone
	}
	if err := ValidateReturnMetadata(q.ReturnMetadata); err != nil {
		return nil, err
	}
	if q.Namespace != "" {
		if err := ValidateNamespace(q.Namespace); err != nil {
			return nil, err
		}
	}

	req, err := jsonCall("query_vectors", http.MethodPost, c.indexPath(index, "query"), q)
	if err != nil {
		return nil, err
	}
	req.idempotent = true
	req.index = index
	req.namespace = q.Namespace

	var out QueryResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVectors fetches records by id. Unknown ids are absent from the result.
func (c *Client) GetVectors(ctx context.Context, index string, ids []string) ([]Vector, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	if err := ValidateVectorIDs(ids); err != nil {
		return nil, err
	}
	req, err := jsonCall("get_vectors", http.MethodPost, c.indexPath(index, "get_by_ids"), idsBody{IDs: ids})
	if err != nil {
		return nil, err
	}
	req.idempotent = true
	req.index = index

	var out []Vector
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteVectors removes records by id.
func (c *Client) DeleteVectors(ctx context.Context, index string, ids []string) (*MutationResult, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	if err := ValidateVectorIDs(ids); err != nil {
		return nil, err
	}
	req, err := jsonCall("delete_vectors", http.MethodPost, c.indexPath(index, "delete_by_ids"), idsBody{IDs: ids})
	if err != nil {
		return nil, err
	}
	req.idempotent = true
	req.index = index

	var out MutationResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListVectors pages through the ids stored in an index.
func (c *Client) ListVectors(ctx context.Context, index string, in ListVectorsRequest) (*ListVectorsResult, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	if in.Count < 0 {
		return nil, invalid("count", "must not be negative, got %d", in.Count)
	}
	query := url.Values{}
	if in.Count > 0 {
		query.Set("count", strconv.Itoa(in.Count))
	}
	if in.Cursor != "" {
		query.Set("cursor", in.Cursor)
	}
	req := call{
		operation:  "list_vectors",
		method:     http.MethodGet,
		path:       c.indexPath(index, "list"),
		query:      query,
		idempotent: true,
		index:      index,
	}
	var out ListVectorsResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
