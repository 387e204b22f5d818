package loader

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// toCtyValue converts the generic tree produced by the TOML and YAML
// decoders into a cty value. Maps become objects and slices become tuples,
// so heterogeneous arrays keep both their element types and their order.
func toCtyValue(v any) (cty.Value, error) {
	switch tv := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(tv), nil
	case bool:
		return cty.BoolVal(tv), nil
	case int:
		return cty.NumberIntVal(int64(tv)), nil
	case int64:
		return cty.NumberIntVal(tv), nil
	case uint64:
		return cty.NumberUIntVal(tv), nil
	case float64:
		if math.IsNaN(tv) {
			return cty.NilVal, fmt.Errorf("NaN is not supported")
		}
		return cty.NumberFloatVal(tv), nil
	case time.Time:
		return cty.StringVal(tv.Format(time.RFC3339Nano)), nil
	case map[string]any:
		return objectVal(tv)
	case map[any]any:
		m := make(map[string]any, len(tv))
		for k, val := range tv {
			m[fmt.Sprint(k)] = val
		}
		return objectVal(m)
	case []map[string]any:
		elems := make([]any, len(tv))
		for i, e := range tv {
			elems[i] = e
		}
		return tupleVal(elems)
	case []any:
		return tupleVal(tv)
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}

func objectVal(m map[string]any) (cty.Value, error) {
	if len(m) == 0 {
		return cty.EmptyObjectVal, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make(map[string]cty.Value, len(m))
	for _, k := range keys {
		val, err := toCtyValue(m[k])
		if err != nil {
			return cty.NilVal, fmt.Errorf("%s: %w", k, err)
		}
		attrs[k] = val
	}
	return cty.ObjectVal(attrs), nil
}

func tupleVal(elems []any) (cty.Value, error) {
	if len(elems) == 0 {
		return cty.EmptyTupleVal, nil
	}
	vals := make([]cty.Value, len(elems))
	for i, e := range elems {
		val, err := toCtyValue(e)
		if err != nil {
			return cty.NilVal, fmt.Errorf("[%d]: %w", i, err)
		}
		vals[i] = val
	}
	return cty.TupleVal(vals), nil
}
