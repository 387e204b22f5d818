// Package loader reads theory schema files from disk. It selects a decoder
// by file extension, turns the file into a format-agnostic config.Document,
// and runs the configured validator over it.
//
// Supported formats are TOML (the canonical kinds file format), YAML, HCL
// native syntax and HCL JSON syntax. All of them produce the same cty object
// shape, so validation and extraction never depend on the source format.
package loader
