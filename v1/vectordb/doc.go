// Package vectordb defines a backend-neutral interface for vector similarity
// search and the filter types shared by its implementations.
//
// # Overview
//
// Application code depends on [Service]. The Cloudflare Vectorize
// implementation lives in the vectorize package:
//
//	┌───────────────────────────────┐
//	│        application code       │
//	└───────────────┬───────────────┘
//	                ▼
//	┌───────────────────────────────┐
//	│       vectordb.Service        │
//	└───────────────┬───────────────┘
//	                ▼
//	┌───────────────────────────────┐
//	│ vectorize.NewVectorDBAdapter  │
//	└───────────────────────────────┘
//
// # Filters
//
// A [FilterSet] combines Must (AND), Should (OR) and MustNot (NOT) clauses of
// match, match-any, match-except and numeric range conditions:
//
//	filters := vectordb.NewFilterSet(
//	    vectordb.Must(
//	        vectordb.NewMatch("lang", "en"),
//	        vectordb.NewNumericRange("year", vectordb.NumericRange{Gte: vectordb.Float(2020)}),
//	    ),
//	    vectordb.MustNot(vectordb.NewMatch("status", "draft")),
//	)
//
// Backends reject filters they cannot express with an error wrapping
// [ErrUnsupportedFilter]. Vectorize metadata filters are conjunctive, so a
// Should clause is only accepted with a single condition.
//
// Filter sets are JSON-serializable; the condition type is recovered from the
// keys present ("equalTo", "anyOf", "noneOf", range bounds).
package vectordb
