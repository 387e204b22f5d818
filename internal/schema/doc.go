// Package schema interprets parsed theory documents. It holds the default
// consistency validator and the extraction step that turns a validated
// cty document into a typed config.TheoryDocument.
package schema
