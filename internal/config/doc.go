// Package config defines the format-agnostic model of a theory schema file,
// along with the core interfaces (Decoder, Validator) used to read and check
// schema files from the supported source formats.
//
// A `config.Document` is the raw parsed file as a cty value. A
// `config.TheoryDocument` is the extracted, typed view of that file that the
// code generator consumes. Concrete decoders live in the `loader` package.
package config
