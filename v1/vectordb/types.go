package vectordb

// SearchRequest is a single similarity query.
type SearchRequest struct {
	CollectionName string `json:"collectionName"`

	Vector []float32 `json:"vector"`

	// TopK is the maximum number of results. Zero lets the backend choose.
	TopK int `json:"maxResults"`

	// Namespace overrides the backend's default partition when non-empty.
	Namespace string `json:"namespace,omitempty"`

	// WithVectors asks the backend to return stored values.
	WithVectors bool `json:"withVectors,omitempty"`

	Filters *FilterSet `json:"filters,omitempty"`
}

// SearchResult is one hit. Payload holds the stored metadata.
type SearchResult struct {
	ID             string         `json:"id"`
	Score          float32        `json:"score"`
	Payload        map[string]any `json:"payload"`
	Vector         []float32      `json:"vector,omitempty"`
	Namespace      string         `json:"namespace,omitempty"`
	CollectionName string         `json:"collectionName,omitempty"`
}

// EmbeddingInput is a record to write.
type EmbeddingInput struct {
	ID        string         `json:"id"`
	Vector    []float32      `json:"vector"`
	Payload   map[string]any `json:"payload,omitempty"`
	Namespace string         `json:"namespace,omitempty"`
}

// Collection describes a collection (a Vectorize index).
type Collection struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	VectorSize  int    `json:"vectorSize"`
	Distance    string `json:"distance"`
	VectorCount uint64 `json:"vectorCount"`

	// PointCount equals VectorCount for backends without a separate notion.
	PointCount uint64 `json:"pointCount"`
}
