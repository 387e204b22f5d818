package schema

import (
	"fmt"

	"github.com/vk/mkexpr/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Field paths reported by MissingRequiredFieldError.
const (
	FieldTypecheckerHeader = "theory.typechecker_header"
	FieldKinds             = "kinds"
)

// Extract converts a parsed document into a TheoryDocument.
//
// `kinds` defaults to an empty list. A missing typechecker header is a
// *config.MissingRequiredFieldError; values of the wrong shape and empty
// rule names are reported as a *config.SchemaValidationError. Kind fields are only required once the
// kind contributes a dispatch arm: a kind with a typerule or construle needs
// a type and a dispatch key, any other kind is taken as is.
func Extract(doc *config.Document) (*config.TheoryDocument, error) {
	theory, _ := attr(doc.Value, "theory")
	header, ok, err := stringAttr(theory, "typechecker_header")
	if err != nil {
		return nil, invalid(doc.Path, "theory."+err.Error())
	}
	if !ok {
		return nil, &config.MissingRequiredFieldError{Path: doc.Path, Field: FieldTypecheckerHeader}
	}

	out := &config.TheoryDocument{
		Path:              doc.Path,
		TypecheckerHeader: header,
		Kinds:             []config.KindRecord{},
	}

	rawKinds, ok := attr(doc.Value, "kinds")
	if !ok {
		return out, nil
	}
	elems, ok := elements(rawKinds)
	if !ok {
		return nil, invalid(doc.Path, fmt.Sprintf("%s must be a list of tables, got %s", FieldKinds, rawKinds.Type().FriendlyName()))
	}

	for i, elem := range elems {
		rec, err := extractKind(doc.Path, i, elem)
		if err != nil {
			return nil, err
		}
		out.Kinds = append(out.Kinds, rec)
	}
	return out, nil
}

func extractKind(path string, idx int, v cty.Value) (config.KindRecord, error) {
	var rec config.KindRecord
	if !isObject(v) {
		return rec, invalid(path, fmt.Sprintf("kinds[%d] must be a table, got %s", idx, v.Type().FriendlyName()))
	}

	fields := []struct {
		name string
		dst  *string
	}{
		{"name", &rec.Name},
		{"K1", &rec.K1},
		{"typerule", &rec.TypeRule},
		{"construle", &rec.ConstRule},
	}
	for _, f := range fields {
		s, ok, err := stringAttr(v, f.name)
		if err != nil {
			return rec, invalid(path, fmt.Sprintf("kinds[%d].%s", idx, err))
		}
		if ok && s == "" && (f.name == "typerule" || f.name == "construle") {
			return rec, invalid(path, fmt.Sprintf("kinds[%d].%s must not be empty", idx, f.name))
		}
		*f.dst = s
	}

	kindType, hasType, err := stringAttr(v, "type")
	if err != nil {
		return rec, invalid(path, fmt.Sprintf("kinds[%d].%s", idx, err))
	}
	rec.Type = config.KindType(kindType)

	if !rec.HasTypeRule() && !rec.HasConstRule() {
		return rec, nil
	}
	if !hasType {
		return rec, &config.MissingRequiredFieldError{Path: path, Field: fmt.Sprintf("kinds[%d].type", idx)}
	}
	if rec.DispatchKey() == "" {
		key := "name"
		if rec.Type == config.KindParameterized {
			key = "K1"
		}
		return rec, &config.MissingRequiredFieldError{Path: path, Field: fmt.Sprintf("kinds[%d].%s", idx, key)}
	}
	return rec, nil
}

func invalid(path, problem string) error {
	return &config.SchemaValidationError{Path: path, Problems: []string{problem}}
}
