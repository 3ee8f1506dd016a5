package vectordb

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedFilter is returned when a filter cannot be expressed by the backend.
var ErrUnsupportedFilter = errors.New("vectordb: unsupported filter")

// FilterCondition is implemented by every condition type. Backends convert
// conditions to their native filter syntax.
type FilterCondition interface {
	IsFilterCondition()
}

// FilterSet groups conditions into Must (AND), Should (OR) and MustNot (NOT)
// clauses.
//
//	filters := vectordb.NewFilterSet(
//	    vectordb.Must(vectordb.NewMatch("lang", "en")),
//	    vectordb.MustNot(vectordb.NewMatchAny("status", "draft", "deleted")),
//	)
type FilterSet struct {
	Must    *ConditionSet `json:"must,omitempty"`
	Should  *ConditionSet `json:"should,omitempty"`
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// MatchCondition is field == value. Value is a string, bool or number.
type MatchCondition struct {
	Field string `json:"field"`
	Value any    `json:"equalTo"`
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition is field IN values.
type MatchAnyCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"anyOf"`
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// MatchExceptCondition is field NOT IN values.
type MatchExceptCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"noneOf"`
}

func (c *MatchExceptCondition) IsFilterCondition() {}

// NumericRange bounds a numeric field. Nil bounds are open.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"`
	Lt  *float64 `json:"lessThan,omitempty"`
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`
}

// Empty reports whether no bound is set.
func (r NumericRange) Empty() bool {
	return r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil
}

type NumericRangeCondition struct {
	Field string       `json:"field"`
	Range NumericRange `json:"-"`
}

func (c *NumericRangeCondition) IsFilterCondition() {}

type numericRangeJSON struct {
	Field string `json:"field"`
	NumericRange
}

func (c *NumericRangeCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(numericRangeJSON{Field: c.Field, NumericRange: c.Range})
}

func (c *NumericRangeCondition) UnmarshalJSON(data []byte) error {
	var v numericRangeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.Field = v.Field
	c.Range = v.NumericRange
	return nil
}

// Validate checks every condition for a field name and homogeneous value types.
func (fs *FilterSet) Validate() error {
	if fs == nil {
		return nil
	}
	for _, cs := range []*ConditionSet{fs.Must, fs.Should, fs.MustNot} {
		if cs == nil {
			continue
		}
		for _, cond := range cs.Conditions {
			if err := validateCondition(cond); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateCondition(cond FilterCondition) error {
	switch c := cond.(type) {
	case *MatchCondition:
		if c.Field == "" {
			return fmt.Errorf("vectordb: match condition without field")
		}
		if getType(c.Value) == "" {
			return fmt.Errorf("vectordb: unsupported value type %T for field %q", c.Value, c.Field)
		}
	case *MatchAnyCondition:
		if c.Field == "" {
			return fmt.Errorf("vectordb: match-any condition without field")
		}
		return validateHomogeneousTypes(c.Field, c.Values)
	case *MatchExceptCondition:
		if c.Field == "" {
			return fmt.Errorf("vectordb: match-except condition without field")
		}
		return validateHomogeneousTypes(c.Field, c.Values)
	case *NumericRangeCondition:
		if c.Field == "" {
			return fmt.Errorf("vectordb: range condition without field")
		}
		if c.Range.Empty() {
			return fmt.Errorf("vectordb: range condition on %q has no bounds", c.Field)
		}
	default:
		return fmt.Errorf("%w: condition type %T", ErrUnsupportedFilter, cond)
	}
	return nil
}
