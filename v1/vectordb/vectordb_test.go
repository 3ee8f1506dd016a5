package vectordb

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSetJSONRoundTrip(t *testing.T) {
	fs := NewFilterSet(
		Must(
			NewMatch("lang", "en"),
			NewNumericRange("year", NumericRange{Gte: Float(2020), Lt: Float(2025)}),
		),
		MustNot(NewMatchAny("status", "draft", "deleted")),
		Should(NewMatchExcept("tier", "free")),
	)

	data, err := json.Marshal(fs)
	require.NoError(t, err)

	var decoded FilterSet
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Must.Conditions, 2)
	assert.Equal(t, &MatchCondition{Field: "lang", Value: "en"}, decoded.Must.Conditions[0])

	rng, ok := decoded.Must.Conditions[1].(*NumericRangeCondition)
	require.True(t, ok)
	assert.Equal(t, "year", rng.Field)
	assert.Equal(t, 2020.0, *rng.Range.Gte)
	assert.Equal(t, 2025.0, *rng.Range.Lt)
	assert.Nil(t, rng.Range.Gt)

	_, ok = decoded.MustNot.Conditions[0].(*MatchAnyCondition)
	assert.True(t, ok)
	_, ok = decoded.Should.Conditions[0].(*MatchExceptCondition)
	assert.True(t, ok)
}

func TestUnknownConditionIsUnsupported(t *testing.T) {
	var cs ConditionSet
	err := json.Unmarshal([]byte(`[{"field":"x","isNull":true}]`), &cs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFilter))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		filters *FilterSet
		wantErr bool
	}{
		{name: "nil", filters: nil},
		{name: "valid", filters: NewFilterSet(Must(NewMatch("a", 1), NewMatchAny("b", "x", "y")))},
		{name: "mixed types", filters: NewFilterSet(Must(NewMatchAny("b", "x", 2))), wantErr: true},
		{name: "empty values", filters: NewFilterSet(MustNot(NewMatchExcept("b"))), wantErr: true},
		{name: "missing field", filters: NewFilterSet(Must(NewMatch("", "x"))), wantErr: true},
		{name: "unsupported value", filters: NewFilterSet(Must(NewMatch("a", []string{"x"}))), wantErr: true},
		{name: "empty range", filters: NewFilterSet(Must(NewNumericRange("a", NumericRange{}))), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
