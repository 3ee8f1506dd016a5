package vectorize

import (
	"encoding/json"
)

// Metric is the distance function of an index.
type Metric string

const (
	MetricCosine     Metric = "cosine"
	MetricEuclidean  Metric = "euclidean"
	MetricDotProduct Metric = "dot-product"
)

// IndexType is the type of a metadata index.
type IndexType string

const (
	IndexTypeString  IndexType = "string"
	IndexTypeNumber  IndexType = "number"
	IndexTypeBoolean IndexType = "boolean"
)

// ReturnMetadata selects how much metadata a query returns.
type ReturnMetadata string

const (
	ReturnMetadataNone    ReturnMetadata = "none"
	ReturnMetadataIndexed ReturnMetadata = "indexed"
	ReturnMetadataAll     ReturnMetadata = "all"
)

// DefaultTopK is used when QueryRequest.TopK is zero.
const DefaultTopK = 5

type IndexConfig struct {
	Dimensions int    `json:"dimensions"`
	Metric     Metric `json:"metric"`
}

// Index describes a remote index.
type Index struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Config      IndexConfig `json:"config"`
	CreatedOn   string      `json:"created_on,omitempty"`
	ModifiedOn  string      `json:"modified_on,omitempty"`
}

type CreateIndexRequest struct {
	Name        string `json:"name"`
	Dimensions  int    `json:"dimensions"`
	Metric      Metric `json:"metric"`
	Description string `json:"description,omitempty"`
}

// IndexInfo is the result of the info endpoint.
type IndexInfo struct {
	Dimensions            int    `json:"dimensions"`
	VectorCount           int64  `json:"vectorCount"`
	ProcessedUpToDatetime string `json:"processedUpToDatetime,omitempty"`
	ProcessedUpToMutation string `json:"processedUpToMutation,omitempty"`
}

// Vector is one record stored in an index. Namespace is empty when the
// record belongs to no namespace.
type Vector struct {
	ID        string         `json:"id"`
	Values    []float64      `json:"values"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Namespace string         `json:"namespace,omitempty"`
}

// wireVector is the encoded form of a Vector. metadata is present iff the
// source map is non-nil, so an empty map survives a round trip.
type wireVector struct {
	ID        string          `json:"id"`
	Values    []float64       `json:"values"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Namespace string          `json:"namespace,omitempty"`
}

// MarshalJSON always writes id and values and writes metadata only when set.
func (v Vector) MarshalJSON() ([]byte, error) {
	w := wireVector{ID: v.ID, Values: v.Values, Namespace: v.Namespace}
	if w.Values == nil {
		w.Values = []float64{}
	}
	if v.Metadata != nil {
		raw, err := json.Marshal(v.Metadata)
		if err != nil {
			return nil, err
		}
		w.Metadata = raw
	}
	return json.Marshal(w)
}

type MetadataIndex struct {
	PropertyName string    `json:"propertyName"`
	IndexType    IndexType `json:"indexType"`
}

// QueryRequest is a similarity query. Zero TopK means DefaultTopK and an
// empty ReturnMetadata means none.
type QueryRequest struct {
	Vector         []float64      `json:"vector"`
	TopK           int            `json:"topK"`
	Filter         map[string]any `json:"filter,omitempty"`
	Namespace      string         `json:"namespace,omitempty"`
	ReturnMetadata ReturnMetadata `json:"returnMetadata,omitempty"`
	ReturnValues   bool           `json:"returnValues"`
}

type QueryResult struct {
	Count   int     `json:"count"`
	Matches []Match `json:"matches"`
}

// Match is one query hit.
type Match struct {
	ID        string         `json:"id"`
	Score     float64        `json:"score"`
	Values    []float64      `json:"values,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Namespace string         `json:"namespace,omitempty"`
}

// MutationResult carries the identifier of an asynchronous write.
type MutationResult struct {
	MutationID string `json:"mutationId"`
}

type ListVectorsRequest struct {
	// Count is the page size. Zero leaves it to the remote default.
	Count  int
	Cursor string
}

type VectorID struct {
	ID string `json:"id"`
}

type ListVectorsResult struct {
	Count                     int        `json:"count"`
	TotalCount                int        `json:"totalCount"`
	IsTruncated               bool       `json:"isTruncated"`
	NextCursor                string     `json:"nextCursor,omitempty"`
	CursorExpirationTimestamp string     `json:"cursorExpirationTimestamp,omitempty"`
	Vectors                   []VectorID `json:"vectors"`
}

// envelope is the common response wrapper of the v4 API.
type envelope struct {
	Success  *bool           `json:"success"`
	Errors   []ResponseError `json:"errors"`
	Messages []any           `json:"messages"`
	Result   json.RawMessage `json:"result"`
}

type createIndexBody struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Config      IndexConfig `json:"config"`
}

type idsBody struct {
	IDs []string `json:"ids"`
}

type metadataIndexListResult struct {
	MetadataIndexes []MetadataIndex `json:"metadataIndexes"`
}

type propertyNameBody struct {
	PropertyName string `json:"propertyName"`
}
