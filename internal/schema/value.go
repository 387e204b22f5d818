package schema

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// attr returns the named attribute of an object value. Missing attributes,
// null values and non-object receivers all report false.
func attr(obj cty.Value, name string) (cty.Value, bool) {
	if obj.IsNull() || !obj.IsKnown() {
		return cty.NilVal, false
	}
	ty := obj.Type()
	if !ty.IsObjectType() || !ty.HasAttribute(name) {
		return cty.NilVal, false
	}
	v := obj.GetAttr(name)
	if v.IsNull() {
		return cty.NilVal, false
	}
	return v, true
}

// stringAttr reads an attribute as a string, converting numbers and bools
// the way HCL would.
func stringAttr(obj cty.Value, name string) (string, bool, error) {
	v, ok := attr(obj, name)
	if !ok {
		return "", false, nil
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil || !s.IsKnown() {
		return "", true, fmt.Errorf("%s must be a string, got %s", name, v.Type().FriendlyName())
	}
	return s.AsString(), true, nil
}

// elements returns the members of a tuple or list value in order.
func elements(v cty.Value) ([]cty.Value, bool) {
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return nil, false
	}
	if !v.IsKnown() {
		return nil, false
	}
	return v.AsValueSlice(), true
}

func isObject(v cty.Value) bool {
	return !v.IsNull() && v.Type().IsObjectType()
}
