package loader

import (
	"context"

	"github.com/BurntSushi/toml"
	"github.com/vk/mkexpr/internal/config"
	"github.com/vk/mkexpr/internal/ctxlog"
)

// TOMLDecoder decodes kinds files written in TOML, e.g.
//
//	[theory]
//	typechecker_header = "theory/arith/theory_arith_type_rules.h"
//
//	[[kinds]]
//	type     = "operator"
//	name     = "ADD"
//	typerule = "ArithOperatorTypeRule"
type TOMLDecoder struct{}

// Decode implements config.Decoder.
func (TOMLDecoder) Decode(ctx context.Context, path string, data []byte) (*config.Document, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, &config.SchemaParseError{Path: path, Err: err}
	}
	ctxlog.FromContext(ctx).Debug("TOML schema decoded.", "path", path, "keys", len(md.Keys()))

	val, err := toCtyValue(raw)
	if err != nil {
		return nil, &config.SchemaParseError{Path: path, Err: err}
	}
	return &config.Document{Path: path, Value: val}, nil
}
