package vectordb

import (
	"encoding/json"
	"fmt"
)

// NewFilterSet applies the given clauses to an empty FilterSet.
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = &ConditionSet{Conditions: conditions}
	}
}

func Should(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Should = &ConditionSet{Conditions: conditions}
	}
}

func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = &ConditionSet{Conditions: conditions}
	}
}

func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

func NewMatchExcept(field string, values ...any) *MatchExceptCondition {
	return &MatchExceptCondition{Field: field, Values: values}
}

func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

// Float returns a pointer to v, for NumericRange bounds.
func Float(v float64) *float64 {
	return &v
}

// MarshalJSON writes the conditions as a plain array.
func (cs *ConditionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(cs.Conditions)
}

// UnmarshalJSON picks the concrete condition type from the keys present:
// "equalTo", "anyOf", "noneOf" or any range bound.
func (cs *ConditionSet) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cs.Conditions = make([]FilterCondition, 0, len(raw))
	for _, r := range raw {
		cond, err := parseCondition(r)
		if err != nil {
			return err
		}
		cs.Conditions = append(cs.Conditions, cond)
	}
	return nil
}

func parseCondition(data []byte) (FilterCondition, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	var cond FilterCondition
	switch {
	case hasKey(fields, "equalTo"):
		cond = &MatchCondition{}
	case hasKey(fields, "anyOf"):
		cond = &MatchAnyCondition{}
	case hasKey(fields, "noneOf"):
		cond = &MatchExceptCondition{}
	case hasKey(fields, "greaterThan"), hasKey(fields, "greaterThanOrEqualTo"),
		hasKey(fields, "lessThan"), hasKey(fields, "lessThanOrEqualTo"):
		cond = &NumericRangeCondition{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, string(data))
	}
	if err := json.Unmarshal(data, cond); err != nil {
		return nil, err
	}
	return cond, nil
}

func hasKey(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}

// validateHomogeneousTypes requires one value category across values.
func validateHomogeneousTypes(field string, values []any) error {
	if len(values) == 0 {
		return fmt.Errorf("vectordb: condition on %q has no values", field)
	}
	expected := getType(values[0])
	if expected == "" {
		return fmt.Errorf("vectordb: unsupported value type %T for field %q", values[0], field)
	}
	for i, v := range values[1:] {
		actual := getType(v)
		if actual == "" {
			return fmt.Errorf("vectordb: unsupported value type %T at index %d for field %q", v, i+1, field)
		}
		if actual != expected {
			return fmt.Errorf("vectordb: mixed value types for field %q: expected %s but got %s at index %d", field, expected, actual, i+1)
		}
	}
	return nil
}

func getType(value any) string {
	switch value.(type) {
	case string:
		return "string"
	case int, int32, int64, float32, float64:
		return "numeric"
	case bool:
		return "boolean"
	}
	return ""
}
