package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/mkexpr/internal/config"
	"github.com/vk/mkexpr/internal/ctxlog"
	"github.com/vk/mkexpr/internal/schema"
)

// Stage is a step of Load that has just completed for a file.
type Stage int

const (
	StageParsed Stage = iota + 1
	StageValidated
)

// Observer is notified after each Load stage completes.
type Observer func(stage Stage, path string)

// Option customises a Loader.
type Option func(*Loader)

// WithObserver reports Load progress to o.
func WithObserver(o Observer) Option {
	return func(l *Loader) { l.observe = o }
}

// Loader reads, decodes and validates schema files.
type Loader struct {
	decoders  map[string]config.Decoder
	validator config.Validator
	observe   Observer
}

// New creates a loader with every built-in decoder registered. A nil
// validator accepts every document.
func New(validator config.Validator, opts ...Option) *Loader {
	if validator == nil {
		validator = schema.NopValidator{}
	}
	l := &Loader{
		decoders:  make(map[string]config.Decoder),
		validator: validator,
		observe:   func(Stage, string) {},
	}
	l.Register(".toml", TOMLDecoder{})
	l.Register(".yaml", YAMLDecoder{})
	l.Register(".yml", YAMLDecoder{})
	l.Register(".hcl", HCLDecoder{})
	l.Register(".json", HCLDecoder{JSON: true})
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register associates a file extension (including the leading dot) with a
// decoder, replacing any previous registration.
func (l *Loader) Register(ext string, d config.Decoder) {
	l.decoders[strings.ToLower(ext)] = d
}

// Extensions returns the registered file extensions in sorted order.
func (l *Loader) Extensions() []string {
	exts := make([]string, 0, len(l.decoders))
	for ext := range l.decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parse reads a schema file and decodes it. Every read or decoding failure
// is a *config.SchemaParseError.
func (l *Loader) Parse(ctx context.Context, path string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)

	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := l.decoders[ext]
	if !ok {
		return nil, &config.SchemaParseError{
			Path: path,
			Err:  fmt.Errorf("unsupported schema format %q (expected one of %s)", ext, strings.Join(l.Extensions(), ", ")),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.SchemaParseError{Path: path, Err: err}
	}
	logger.Debug("Schema file read.", "path", path, "bytes", len(data), "format", ext)

	doc, err := dec.Decode(ctx, path, data)
	if err != nil {
		var parseErr *config.SchemaParseError
		if errors.As(err, &parseErr) {
			return nil, err
		}
		return nil, &config.SchemaParseError{Path: path, Err: err}
	}
	return doc, nil
}

// Validate runs the configured validator over a parsed document. Rejections
// are always surfaced as a *config.SchemaValidationError.
func (l *Loader) Validate(ctx context.Context, doc *config.Document) error {
	err := l.validator.Validate(ctx, doc.Path, doc)
	if err == nil {
		return nil
	}
	var valErr *config.SchemaValidationError
	if errors.As(err, &valErr) {
		return err
	}
	return &config.SchemaValidationError{Path: doc.Path, Problems: []string{err.Error()}}
}

// Load parses, validates and extracts a single schema file.
func (l *Loader) Load(ctx context.Context, path string) (*config.TheoryDocument, error) {
	doc, err := l.Parse(ctx, path)
	if err != nil {
		return nil, err
	}
	l.observe(StageParsed, path)

	if err := l.Validate(ctx, doc); err != nil {
		return nil, err
	}
	l.observe(StageValidated, path)

	return schema.Extract(doc)
}
