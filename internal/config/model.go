package config

import "github.com/zclconf/go-cty/cty"

// KindType is the variant of a kind declared in a theory schema.
type KindType string

const (
	KindOperator        KindType = "operator"
	KindParameterized   KindType = "parameterized"
	KindConstant        KindType = "constant"
	KindVariable        KindType = "variable"
	KindNullaryOperator KindType = "nullaryoperator"
	KindSort            KindType = "sort"
)

// KnownKindTypes lists every kind variant accepted in a schema file.
var KnownKindTypes = []KindType{
	KindOperator,
	KindParameterized,
	KindConstant,
	KindVariable,
	KindNullaryOperator,
	KindSort,
}

// Valid reports whether t is one of the known kind variants.
func (t KindType) Valid() bool {
	for _, known := range KnownKindTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Document is a single schema file parsed into a generic cty object. It is
// what validators inspect, before any field is extracted.
type Document struct {
	Path  string
	Value cty.Value
}

// KindRecord is the format-agnostic representation of one `kinds` entry.
type KindRecord struct {
	Name      string
	Type      KindType
	K1        string // only meaningful for parameterized kinds
	TypeRule  string
	ConstRule string
}

// DispatchKey returns the identifier used for the kind in generated `case`
// arms: K1 for parameterized kinds, the name otherwise.
func (k KindRecord) DispatchKey() string {
	if k.Type == KindParameterized {
		return k.K1
	}
	return k.Name
}

// HasTypeRule reports whether the kind names a type-inference handler.
func (k KindRecord) HasTypeRule() bool { return k.TypeRule != "" }

// HasConstRule reports whether the kind names a constant-folding handler.
func (k KindRecord) HasConstRule() bool { return k.ConstRule != "" }

// TheoryDocument is the typed view of one schema file.
type TheoryDocument struct {
	Path              string
	TypecheckerHeader string
	Kinds             []KindRecord
}
