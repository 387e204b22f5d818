package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/mkexpr/internal/config"
)

// Dispatch arm layouts. The trailing indentation of each arm is part of the
// format and must not be trimmed.
const (
	typeRuleArm = "\n    case Kind::%s:\n" +
		"        typeNode = %s::computeType(nodeManager, n, check, errOut);\n" +
		"        break;\n" +
		"            "
	preTypeRuleArm = "\n    case Kind::%s:\n" +
		"        typeNode = %s::preComputeType(nodeManager, n);\n" +
		"        break;\n" +
		"            "
	constRuleArm = "\n    case Kind::%s:\n" +
		"        return %s::computeIsConst(nodeManager, n);\n" +
		"            "
	includeDirective = "\n#include \"%s\""
)

// ErrSealed is returned when a theory is added after the fragment set was
// sealed for rendering.
var ErrSealed = errors.New("fragment set is sealed")

// FragmentSet accumulates the generated dispatch fragments of one run.
// Fragments only grow: arms are appended in the order theories are added
// and, within a theory, in kind order. Nothing is deduplicated.
type FragmentSet struct {
	typeRules    strings.Builder
	preTypeRules strings.Builder
	constRules   strings.Builder
	includes     strings.Builder

	theories  int
	typeArms  int
	constArms int
	sealed    bool
}

// NewFragmentSet returns an empty accumulator.
func NewFragmentSet() *FragmentSet {
	return &FragmentSet{}
}

// AddTheory appends the dispatch arms and header include of one theory.
func (f *FragmentSet) AddTheory(doc *config.TheoryDocument) error {
	if f.sealed {
		return fmt.Errorf("add %s: %w", doc.Path, ErrSealed)
	}

	for _, kind := range doc.Kinds {
		if !kind.HasTypeRule() {
			continue
		}
		key := kind.DispatchKey()
		fmt.Fprintf(&f.typeRules, typeRuleArm, key, kind.TypeRule)
		fmt.Fprintf(&f.preTypeRules, preTypeRuleArm, key, kind.TypeRule)
		f.typeArms++
	}

	fmt.Fprintf(&f.includes, includeDirective, doc.TypecheckerHeader)

	for _, kind := range doc.Kinds {
		if !kind.HasConstRule() {
			continue
		}
		fmt.Fprintf(&f.constRules, constRuleArm, kind.DispatchKey(), kind.ConstRule)
		f.constArms++
	}

	f.theories++
	return nil
}

// Seal marks accumulation as complete. Rendering requires a sealed set.
func (f *FragmentSet) Seal() { f.sealed = true }

// Sealed reports whether Seal has been called.
func (f *FragmentSet) Sealed() bool { return f.sealed }

func (f *FragmentSet) TypeRules() string    { return f.typeRules.String() }
func (f *FragmentSet) PreTypeRules() string { return f.preTypeRules.String() }
func (f *FragmentSet) ConstRules() string   { return f.constRules.String() }
func (f *FragmentSet) Includes() string     { return f.includes.String() }

// Theories returns how many theory documents were added.
func (f *FragmentSet) Theories() int { return f.theories }

// TypeRuleArms returns the number of arms in the typerule fragments. The
// pre-typerule fragment always has the same count.
func (f *FragmentSet) TypeRuleArms() int { return f.typeArms }

// ConstRuleArms returns the number of arms in the construle fragment.
func (f *FragmentSet) ConstRuleArms() int { return f.constArms }
