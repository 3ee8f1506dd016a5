package vectorize

import (
	"fmt"

	"github.com/Aleph-Alpha/cfvectorize/v1/vectordb"
)

// Metadata filter operators understood by the remote query endpoint.
const (
	opEq  = "$eq"
	opNe  = "$ne"
	opIn  = "$in"
	opNin = "$nin"
	opLt  = "$lt"
	opLte = "$lte"
	opGt  = "$gt"
	opGte = "$gte"
)

// ConvertFilterSet turns a vectordb filter set into a metadata filter, e.g.
//
//	{"lang": {"$eq": "en"}, "year": {"$gte": 2020, "$lt": 2025}}
//
// Remote filters are a conjunction of per-field operators. MustNot
// conditions are negated (match becomes $ne, match-any becomes $nin); a
// negated range and a Should clause with more than one condition cannot be
// expressed and yield a *ValidationError. A nil or empty set yields nil.
func ConvertFilterSet(fs *vectordb.FilterSet) (map[string]any, error) {
	if fs == nil {
		return nil, nil
	}
	if err := fs.Validate(); err != nil {
		return nil, &ValidationError{Field: "filter", Reason: err.Error()}
	}

	b := filterBuilder{}
	if fs.Must != nil {
		for _, cond := range fs.Must.Conditions {
			if err := b.add(cond, false); err != nil {
				return nil, err
			}
		}
	}
	if fs.Should != nil {
		switch len(fs.Should.Conditions) {
		case 0:
		case 1:
			if err := b.add(fs.Should.Conditions[0], false); err != nil {
				return nil, err
			}
		default:
			return nil, invalid("filter", "should clauses with more than one condition are not supported")
		}
	}
	if fs.MustNot != nil {
		for _, cond := range fs.MustNot.Conditions {
			if err := b.add(cond, true); err != nil {
				return nil, err
			}
		}
	}

	if len(b) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(b))
	for field, ops := range b {
		out[field] = ops
	}
	return out, nil
}

type filterBuilder map[string]map[string]any

func (b filterBuilder) set(field, op string, value any) error {
	ops, ok := b[field]
	if !ok {
		ops = map[string]any{}
		b[field] = ops
	}
	if _, exists := ops[op]; exists {
		return invalid("filter", "operator %s used twice on field %q", op, field)
	}
	ops[op] = value
	return nil
}

func (b filterBuilder) add(cond vectordb.FilterCondition, negate bool) error {
	switch c := cond.(type) {
	case *vectordb.MatchCondition:
		if negate {
			return b.set(c.Field, opNe, c.Value)
		}
		return b.set(c.Field, opEq, c.Value)

	case *vectordb.MatchAnyCondition:
		if negate {
			return b.set(c.Field, opNin, c.Values)
		}
		return b.set(c.Field, opIn, c.Values)

	case *vectordb.MatchExceptCondition:
		if negate {
			return b.set(c.Field, opIn, c.Values)
		}
		return b.set(c.Field, opNin, c.Values)

	case *vectordb.NumericRangeCondition:
		if negate {
			return invalid("filter", "negated range on field %q is not supported", c.Field)
		}
		bounds := []struct {
			op string
			v  *float64
		}{
			{opGt, c.Range.Gt}, {opGte, c.Range.Gte}, {opLt, c.Range.Lt}, {opLte, c.Range.Lte},
		}
		for _, bound := range bounds {
			if bound.v == nil {
				continue
			}
			if err := b.set(c.Field, bound.op, *bound.v); err != nil {
				return err
			}
		}
		return nil
	}
	return &ValidationError{Field: "filter", Reason: fmt.Sprintf("unsupported condition %T", cond)}
}

func toFloat64(v []float32) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

func toFloat32(v []float64) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
