// Package png owns the file container: an 8-byte signature followed by an
// ordered sequence of chunk records.
//
// Ownership boundary:
// - signature check
// - chunk sequencing and lookup by type
// - whole-file encode
//
// Record parsing belongs to package chunk.
package png
