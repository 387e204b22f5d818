// Package codegen builds the generated type-checker source. It accumulates
// dispatch fragments from theory documents, substitutes them into the
// template and writes the result behind a provenance header.
//
// The fragment byte layout is fixed: generated files are checked into
// downstream trees and must stay diff-stable across regenerations.
package codegen
