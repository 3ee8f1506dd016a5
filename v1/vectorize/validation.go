package vectorize

import (
	"unicode/utf8"
)

const (
	MaxNamespaceLength = 64
	MaxIndexNameLength = 32
	MinDimensions      = 1
	MaxDimensions      = 1536
)

// ValidateNamespace accepts 1 to 64 characters.
func ValidateNamespace(namespace string) error {
	n := utf8.RuneCountInString(namespace)
	if n == 0 {
		return invalid("namespace", "must not be empty")
	}
	if n > MaxNamespaceLength {
		return invalid("namespace", "must be at most %d characters, got %d", MaxNamespaceLength, n)
	}
	return nil
}

// ValidateIndexName accepts a lowercase letter followed by lowercase letters,
// digits or dashes, 32 characters at most.
func ValidateIndexName(name string) error {
	if name == "" {
		return invalid("index name", "must not be empty")
	}
	if len(name) > MaxIndexNameLength {
		return invalid("index name", "must be at most %d characters, got %d", MaxIndexNameLength, len(name))
	}
	if c := name[0]; c < 'a' || c > 'z' {
		return invalid("index name", "must start with a lowercase letter")
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return invalid("index name", "invalid character %q at position %d", c, i)
	}
	return nil
}

// ValidateDimensions accepts 1 to 1536.
func ValidateDimensions(dimensions int) error {
	if dimensions < MinDimensions || dimensions > MaxDimensions {
		return invalid("dimensions", "must be between %d and %d, got %d", MinDimensions, MaxDimensions, dimensions)
	}
	return nil
}

func ValidateMetric(m Metric) error {
	switch m {
	case MetricCosine, MetricEuclidean, MetricDotProduct:
		return nil
	}
	return invalid("metric", "must be one of cosine, euclidean, dot-product, got %q", m)
}

func ValidateIndexType(t IndexType) error {
	switch t {
	case IndexTypeString, IndexTypeNumber, IndexTypeBoolean:
		return nil
	}
	return invalid("index type", "must be one of string, number, boolean, got %q", t)
}

func ValidateReturnMetadata(r ReturnMetadata) error {
	switch r {
	case ReturnMetadataNone, ReturnMetadataIndexed, ReturnMetadataAll:
		return nil
	}
	return invalid("returnMetadata", "must be one of none, indexed, all, got %q", r)
}

func ValidateTopK(k int) error {
	if k < 1 {
		return invalid("topK", "must be at least 1, got %d", k)
	}
	return nil
}

// ValidateVectorIDs requires a non-empty list of non-empty ids.
func ValidateVectorIDs(ids []string) error {
	if len(ids) == 0 {
		return invalid("ids", "at least one id is required")
	}
	for i, id := range ids {
		if id == "" {
			return invalid("ids", "id at position %d is empty", i)
		}
	}
	return nil
}

// ValidateVector checks a single record. Its length is not compared to the
// index dimensions; the remote service rejects mismatches.
func ValidateVector(v Vector) error {
	if v.ID == "" {
		return invalid("vector id", "must not be empty")
	}
	if len(v.Values) == 0 {
		return invalid("vector values", "vector %q has no values", v.ID)
	}
	if v.Namespace != "" {
		return ValidateNamespace(v.Namespace)
	}
	return nil
}

// ValidateCreateIndex checks name, dimensions and metric of a new index.
func ValidateCreateIndex(req CreateIndexRequest) error {
	if err := ValidateIndexName(req.Name); err != nil {
		return err
	}
	if err := ValidateDimensions(req.Dimensions); err != nil {
		return err
	}
	return ValidateMetric(req.Metric)
}

func validateVectors(vectors []Vector) error {
	if len(vectors) == 0 {
		return invalid("vectors", "at least one vector is required")
	}
	for _, v := range vectors {
		if err := ValidateVector(v); err != nil {
			return err
		}
	}
	return nil
}

func requireIndex(name string) error {
	if name == "" {
		return invalid("index name", "must not be empty")
	}
	return nil
}
