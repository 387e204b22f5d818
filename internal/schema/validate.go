package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/mkexpr/internal/config"
	"github.com/vk/mkexpr/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

var (
	identRe     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	qualIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// TheoryValidator is the default consistency checker for theory documents.
//
// Dispatch keys must be unique across every document validated by the same
// instance, so a single TheoryValidator should be used for one generation
// run and then discarded.
type TheoryValidator struct {
	seen map[string]string // dispatch key -> file that declared it
}

// NewTheoryValidator creates a validator with an empty key set.
func NewTheoryValidator() *TheoryValidator {
	return &TheoryValidator{seen: make(map[string]string)}
}

// Validate implements config.Validator. Every problem in the document is
// reported in a single *config.SchemaValidationError.
func (v *TheoryValidator) Validate(ctx context.Context, fileID string, doc *config.Document) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	root := doc.Value
	if !isObject(root) {
		return &config.SchemaValidationError{Path: fileID, Problems: []string{"document root must be a table"}}
	}

	theory, ok := attr(root, "theory")
	switch {
	case !ok:
		errs = append(errs, "missing [theory] table")
	case !isObject(theory):
		errs = append(errs, fmt.Sprintf("theory must be a table, got %s", theory.Type().FriendlyName()))
	default:
		header, ok, err := stringAttr(theory, "typechecker_header")
		switch {
		case err != nil:
			errs = append(errs, "theory."+err.Error())
		case !ok || strings.TrimSpace(header) == "":
			errs = append(errs, "theory.typechecker_header is required and must not be empty")
		}
	}

	declared := make(map[string]int)
	if rawKinds, ok := attr(root, "kinds"); ok {
		elems, ok := elements(rawKinds)
		if !ok {
			errs = append(errs, fmt.Sprintf("kinds must be a list of tables, got %s", rawKinds.Type().FriendlyName()))
		}
		for i, elem := range elems {
			key, kindErrs := v.validateKind(i, elem)
			errs = append(errs, kindErrs...)
			if key == "" {
				continue
			}
			if prev, dup := declared[key]; dup {
				errs = append(errs, fmt.Sprintf("kinds[%d]: dispatch key %q already declared by kinds[%d]", i, key, prev))
				continue
			}
			if other, dup := v.seen[key]; dup {
				errs = append(errs, fmt.Sprintf("kinds[%d]: dispatch key %q already declared in %s", i, key, other))
				continue
			}
			declared[key] = i
		}
	}

	if len(errs) > 0 {
		logger.Debug("Schema validation failed.", "file", fileID, "problems", len(errs))
		return &config.SchemaValidationError{Path: fileID, Problems: errs}
	}

	for key := range declared {
		v.seen[key] = fileID
	}
	logger.Debug("Schema validation passed.", "file", fileID, "kinds", len(declared))
	return nil
}

// validateKind checks one kinds entry and returns its dispatch key when one
// could be determined.
func (v *TheoryValidator) validateKind(idx int, kind cty.Value) (string, []string) {
	prefix := fmt.Sprintf("kinds[%d]", idx)
	if !isObject(kind) {
		return "", []string{fmt.Sprintf("%s must be a table, got %s", prefix, kind.Type().FriendlyName())}
	}

	var errs []string
	read := func(name string) (string, bool) {
		s, ok, err := stringAttr(kind, name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s.%s", prefix, err))
			return "", false
		}
		return s, ok
	}

	kindType, ok := read("type")
	switch {
	case !ok:
		errs = append(errs, fmt.Sprintf("%s.type is required", prefix))
	case !config.KindType(kindType).Valid():
		errs = append(errs, fmt.Sprintf("%s.type %q is not one of %s", prefix, kindType, knownKindTypes()))
	}

	keyField := "name"
	if config.KindType(kindType) == config.KindParameterized {
		keyField = "K1"
	}
	key, ok := read(keyField)
	switch {
	case !ok || key == "":
		errs = append(errs, fmt.Sprintf("%s.%s is required", prefix, keyField))
		key = ""
	case !identRe.MatchString(key):
		errs = append(errs, fmt.Sprintf("%s.%s %q is not a valid identifier", prefix, keyField, key))
		key = ""
	}

	for _, rule := range []string{"typerule", "construle"} {
		name, ok := read(rule)
		if ok && !qualIdentRe.MatchString(name) {
			errs = append(errs, fmt.Sprintf("%s.%s %q is not a valid class name", prefix, rule, name))
		}
	}
	return key, errs
}

func knownKindTypes() string {
	names := make([]string, len(config.KnownKindTypes))
	for i, t := range config.KnownKindTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// NopValidator accepts every document.
type NopValidator struct{}

// Validate implements config.Validator.
func (NopValidator) Validate(context.Context, string, *config.Document) error { return nil }
