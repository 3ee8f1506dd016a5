package vectorize

import (
	"context"
	"net/http"
)

// ListIndexes returns every index of the account.
func (c *Client) ListIndexes(ctx context.Context) ([]Index, error) {
	req := call{operation: "list_indexes", method: http.MethodGet, path: "/indexes", idempotent: true}
	var out []Index
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIndex creates a new index. It is attempted exactly once.
func (c *Client) CreateIndex(ctx context.Context, in CreateIndexRequest) (*Index, error) {
	if err := ValidateCreateIndex(in); err != nil {
		return nil, err
	}
	req, err := jsonCall("create_index", http.MethodPost, "/indexes", createIndexBody{
		Name:        in.Name,
		Description: in.Description,
		Config:      IndexConfig{Dimensions: in.Dimensions, Metric: in.Metric},
	})
	if err != nil {
		return nil, err
	}
	req.index = in.Name

	var out Index
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetIndex returns the description of one index.
func (c *Client) GetIndex(ctx context.Context, name string) (*Index, error) {
	if err := requireIndex(name); err != nil {
		return nil, err
	}
	req := call{operation: "get_index", method: http.MethodGet, path: c.indexPath(name), idempotent: true, index: name}
	var out Index
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetIndexInfo returns vector count and processing state of one index.
func (c *Client) GetIndexInfo(ctx context.Context, name string) (*IndexInfo, error) {
	if err := requireIndex(name); err != nil {
		return nil, err
	}
	req := call{operation: "get_index_info", method: http.MethodGet, path: c.indexPath(name, "info"), idempotent: true, index: name}
	var out IndexInfo
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteIndex removes an index and all its vectors.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	if err := requireIndex(name); err != nil {
		return err
	}
	req := call{operation: "delete_index", method: http.MethodDelete, path: c.indexPath(name), idempotent: true, index: name}
	return c.do(ctx, req, nil)
}
