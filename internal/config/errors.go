package config

import (
	"fmt"
	"strings"
)

// MissingInputFileError is returned when one or more declared schema files
// do not exist. It is raised before any file is parsed.
type MissingInputFileError struct {
	Paths []string
}

func (e *MissingInputFileError) Error() string {
	lines := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		lines[i] = fmt.Sprintf("Kinds file '%s' does not exist", p)
	}
	return strings.Join(lines, "\n")
}

// SchemaParseError wraps a syntax or format error for a schema file.
type SchemaParseError struct {
	Path string
	Err  error
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *SchemaParseError) Unwrap() error { return e.Err }

// SchemaValidationError reports every consistency problem found in a
// schema file by a Validator.
type SchemaValidationError struct {
	Path     string
	Problems []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("validate %s:\n- %s", e.Path, strings.Join(e.Problems, "\n- "))
}

// MissingRequiredFieldError is returned when a field the generator needs is
// absent from an otherwise valid schema file.
type MissingRequiredFieldError struct {
	Path  string
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Path, e.Field)
}
