package vectorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/cfvectorize/v1/vectordb"
)

func TestConvertFilterSet(t *testing.T) {
	tests := []struct {
		name    string
		filters *vectordb.FilterSet
		want    map[string]any
		wantErr bool
	}{
		{
			name: "nil",
		},
		{
			name:    "empty",
			filters: vectordb.NewFilterSet(),
		},
		{
			name:    "match",
			filters: vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatch("lang", "en"))),
			want:    map[string]any{"lang": map[string]any{"$eq": "en"}},
		},
		{
			name: "range merges with match on other field",
			filters: vectordb.NewFilterSet(vectordb.Must(
				vectordb.NewMatch("lang", "en"),
				vectordb.NewNumericRange("year", vectordb.NumericRange{Gte: vectordb.Float(2020), Lt: vectordb.Float(2025)}),
			)),
			want: map[string]any{
				"lang": map[string]any{"$eq": "en"},
				"year": map[string]any{"$gte": 2020.0, "$lt": 2025.0},
			},
		},
		{
			name:    "match any and except",
			filters: vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatchAny("tag", "a", "b"), vectordb.NewMatchExcept("tier", "free"))),
			want: map[string]any{
				"tag":  map[string]any{"$in": []any{"a", "b"}},
				"tier": map[string]any{"$nin": []any{"free"}},
			},
		},
		{
			name: "must not is negated",
			filters: vectordb.NewFilterSet(vectordb.MustNot(
				vectordb.NewMatch("status", "draft"),
				vectordb.NewMatchAny("kind", "x"),
				vectordb.NewMatchExcept("owner", "me"),
			)),
			want: map[string]any{
				"status": map[string]any{"$ne": "draft"},
				"kind":   map[string]any{"$nin": []any{"x"}},
				"owner":  map[string]any{"$in": []any{"me"}},
			},
		},
		{
			name:    "single should acts as must",
			filters: vectordb.NewFilterSet(vectordb.Should(vectordb.NewMatch("lang", "de"))),
			want:    map[string]any{"lang": map[string]any{"$eq": "de"}},
		},
		{
			name:    "should with two conditions",
			filters: vectordb.NewFilterSet(vectordb.Should(vectordb.NewMatch("a", 1), vectordb.NewMatch("b", 2))),
			wantErr: true,
		},
		{
			name:    "negated range",
			filters: vectordb.NewFilterSet(vectordb.MustNot(vectordb.NewNumericRange("n", vectordb.NumericRange{Gt: vectordb.Float(1)}))),
			wantErr: true,
		},
		{
			name: "same operator twice",
			filters: vectordb.NewFilterSet(
				vectordb.Must(vectordb.NewMatch("lang", "en")),
				vectordb.Should(vectordb.NewMatch("lang", "de")),
			),
			wantErr: true,
		},
		{
			name:    "mixed types",
			filters: vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatchAny("tag", "a", 1))),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertFilterSet(tt.filters)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
