package loader

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/vk/mkexpr/internal/config"
	"gopkg.in/yaml.v3"
)

// YAMLDecoder decodes kinds files written in YAML. The document must be a
// mapping with the same keys as the TOML form.
type YAMLDecoder struct{}

// Decode implements config.Decoder.
func (YAMLDecoder) Decode(_ context.Context, path string, data []byte) (*config.Document, error) {
	var raw map[string]any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, &config.SchemaParseError{Path: path, Err: err}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	val, err := toCtyValue(raw)
	if err != nil {
		return nil, &config.SchemaParseError{Path: path, Err: err}
	}
	return &config.Document{Path: path, Value: val}, nil
}
