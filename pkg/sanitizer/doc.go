// Package sanitizer provides composable text normalization for registry cells.
//
// Every strategy is a total function over strings and, with the exception of
// ReplaceWith, idempotent. Strategies are chained with Pipeline and applied left
// to right.
//
// Normalization includes:
//   - Whitespace: trim, collapse internal runs to a single space
//   - Case: Unicode-aware upper and lower casing
//   - Unicode: NFC composition, accent folding ("BOGOTÁ" becomes "BOGOTA")
//   - Headers: cut a multi-line header cell at its first line break
//   - Slices: remove duplicates and empty values after normalization
package sanitizer
