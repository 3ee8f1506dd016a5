package vectorize

import (
	"context"
	"net/http"
)

// CreateMetadataIndex enables filtering on propertyName. It is attempted exactly once.
func (c *Client) CreateMetadataIndex(ctx context.Context, index string, mi MetadataIndex) (*MutationResult, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	if mi.PropertyName == "" {
		return nil, invalid("propertyName", "must not be empty")
	}
	if err := ValidateIndexType(mi.IndexType); err != nil {
		return nil, err
	}
	req, err := jsonCall("create_metadata_index", http.MethodPost, c.indexPath(index, "metadata_index", "create"), mi)
	if err != nil {
		return nil, err
	}
	req.index = index

	var out MutationResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMetadataIndexes(ctx context.Context, index string) ([]MetadataIndex, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	req := call{
		operation:  "list_metadata_indexes",
		method:     http.MethodGet,
		path:       c.indexPath(index, "metadata_index", "list"),
		idempotent: true,
		index:      index,
	}
	var out metadataIndexListResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out.MetadataIndexes, nil
}

func (c *Client) DeleteMetadataIndex(ctx context.Context, index, propertyName string) (*MutationResult, error) {
	if err := requireIndex(index); err != nil {
		return nil, err
	}
	if propertyName == "" {
		return nil, invalid("propertyName", "must not be empty")
	}
	req, err := jsonCall("delete_metadata_index", http.MethodPost, c.indexPath(index, "metadata_index", "delete"), propertyNameBody{PropertyName: propertyName})
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
