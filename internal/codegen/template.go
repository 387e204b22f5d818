package codegen

import (
	"bytes"
	"fmt"
	"os"
)

// Template placeholders.
const (
	PlaceholderTemplateFilePath    = "${template_file_path}"
	PlaceholderGenerationCommand   = "${generation_command}" // reserved, never substituted
	PlaceholderTypeRules           = "${typerules}"
	PlaceholderPreTypeRules        = "${pretyperules}"
	PlaceholderConstRules          = "${construles}"
	PlaceholderTypecheckerIncludes = "${typechecker_includes}"
	PlaceholderCopyright           = "${copyright}" // header only
)

// Template is the raw content of a template file. It is immutable: Fill
// returns a new Template and leaves the receiver untouched.
type Template struct {
	path string
	data []byte
}

// NewTemplate wraps template bytes read from path.
func NewTemplate(path string, data []byte) *Template {
	return &Template{path: path, data: data}
}

// LoadTemplate reads a template file once.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return NewTemplate(path, data), nil
}

// Path returns the file the template was read from.
func (t *Template) Path() string { return t.path }

// Bytes returns a copy of the current template content.
func (t *Template) Bytes() []byte { return bytes.Clone(t.data) }

// Len returns the template size in bytes.
func (t *Template) Len() int { return len(t.data) }

// Fill replaces every occurrence of placeholder with text.
func (t *Template) Fill(placeholder, text string) *Template {
	return &Template{
		path: t.path,
		data: bytes.ReplaceAll(t.data, []byte(placeholder), []byte(text)),
	}
}

// Render substitutes every production placeholder with the accumulated
// fragments. The fragment set must be sealed, so no theory can be added
// after its contribution would have been needed.
func (t *Template) Render(f *FragmentSet) ([]byte, error) {
	if !f.Sealed() {
		return nil, fmt.Errorf("render %s: fragment set is not sealed", t.path)
	}
	out := t.
		Fill(PlaceholderTemplateFilePath, t.path).
		Fill(PlaceholderTypeRules, f.TypeRules()).
		Fill(PlaceholderPreTypeRules, f.PreTypeRules()).
		Fill(PlaceholderTypecheckerIncludes, f.Includes()).
		Fill(PlaceholderConstRules, f.ConstRules())
	return out.data, nil
}
