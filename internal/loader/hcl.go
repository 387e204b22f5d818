package loader

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/mkexpr/internal/config"
	"github.com/vk/mkexpr/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// fileSchema mirrors the TOML layout: one `theory` block and any number of
// `kinds` blocks, each holding plain attributes.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "theory"},
		{Type: "kinds"},
	},
}

// HCLDecoder decodes kinds files written in HCL native syntax, or in HCL
// JSON syntax when JSON is set:
//
//	theory {
//	  typechecker_header = "theory/arith/theory_arith_type_rules.h"
//	}
//
//	kinds {
//	  type     = "operator"
//	  name     = "ADD"
//	  typerule = "ArithOperatorTypeRule"
//	}
type HCLDecoder struct {
	JSON bool
}

// Decode implements config.Decoder.
func (d HCLDecoder) Decode(ctx context.Context, path string, data []byte) (*config.Document, error) {
	parser := hclparse.NewParser()

	var file *hcl.File
	var diags hcl.Diagnostics
	if d.JSON {
		file, diags = parser.ParseJSON(data, path)
	} else {
		file, diags = parser.ParseHCL(data, path)
	}
	if diags.HasErrors() {
		return nil, &config.SchemaParseError{Path: path, Err: diags}
	}

	content, _, diags := file.Body.PartialContent(fileSchema)
	if diags.HasErrors() {
		return nil, &config.SchemaParseError{Path: path, Err: diags}
	}

	attrs := make(map[string]cty.Value)
	var kinds []cty.Value
	for _, block := range content.Blocks {
		val, diags := blockValue(block)
		if diags.HasErrors() {
			return nil, &config.SchemaParseError{Path: path, Err: diags}
		}
		switch block.Type {
		case "theory":
			if _, dup := attrs["theory"]; dup {
				return nil, &config.SchemaParseError{Path: path, Err: hcl.Diagnostics{{
					Severity: hcl.DiagError,
					Summary:  "Duplicate theory block",
					Detail:   "Only one theory block is allowed per schema file.",
					Subject:  block.DefRange.Ptr(),
				}}}
			}
			attrs["theory"] = val
		case "kinds":
			kinds = append(kinds, val)
		}
	}
	if len(kinds) > 0 {
		attrs["kinds"] = cty.TupleVal(kinds)
	}

	ctxlog.FromContext(ctx).Debug("HCL schema decoded.", "path", path, "json", d.JSON, "kinds", len(kinds))
	return &config.Document{Path: path, Value: cty.ObjectVal(attrs)}, nil
}

// blockValue evaluates every attribute of a block into a cty object. No
// variables or functions are available, so only literal values are accepted.
func blockValue(block *hcl.Block) (cty.Value, hcl.Diagnostics) {
	hclAttrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if len(hclAttrs) == 0 {
		return cty.EmptyObjectVal, nil
	}

	vals := make(map[string]cty.Value, len(hclAttrs))
	for name, attr := range hclAttrs {
		v, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		vals[name] = v
	}
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return cty.ObjectVal(vals), diags
}
