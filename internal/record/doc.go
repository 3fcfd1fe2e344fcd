// Package record defines the journal representation of accepted star
// operations and their content-addressed identity.
//
// This package imports nothing internal. Operation IDs are computed over
// RFC 8785 style canonical JSON so that the same operation always hashes to
// the same ID, regardless of map iteration order or Unicode normalization
// form of node names.
//
// Key design constraints:
//   - Logical clocks (seq) only, never wall-clock timestamps
//   - All JSON tags use snake_case
//   - No floats in canonical encoding
package record
