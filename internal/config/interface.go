package config

import "context"

// Decoder is the interface for a format-specific schema parser.
type Decoder interface {
	// Decode parses the raw bytes of a schema file into the format-agnostic
	// document representation. The path is used for diagnostics only.
	Decode(ctx context.Context, path string, data []byte) (*Document, error)
}

// Validator checks a parsed schema document for internal consistency.
// It returns nil when the document is consistent and an error describing
// the violation otherwise.
type Validator interface {
	Validate(ctx context.Context, fileID string, doc *Document) error
}

// ValidatorFunc adapts an ordinary function to the Validator interface.
type ValidatorFunc func(ctx context.Context, fileID string, doc *Document) error

// Validate calls f(ctx, fileID, doc).
func (f ValidatorFunc) Validate(ctx context.Context, fileID string, doc *Document) error {
	return f(ctx, fileID, doc)
}
