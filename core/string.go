package core

import "unicode/utf8"

// HeapString describes a string owned by the managed heap together
// with the representation metadata the detailed escape path reports.
// Text must be valid UTF-8; code units above 0xFF only occur in
// two-byte strings. The zero value describes an empty one-byte string.
type HeapString struct {
	Text string

	// TwoByte marks a two-byte-per-character representation.
	TwoByte bool
	// External marks content backed by memory outside the managed heap.
	External bool
	// Interned marks a string deduplicated through the intern table.
	Interned bool
}

// Len returns the length in code units. It reflects the full string,
// independent of any truncation applied while emitting.
func (s HeapString) Len() int {
	return utf8.RuneCountInString(s.Text)
}

// Symbol is a symbol-typed heap value. Name is nil for the unnamed
// placeholder symbol.
type Symbol struct {
	Name *HeapString
	Hash uint32
}
