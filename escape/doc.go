// Package escape implements the character encodings that keep event
// log lines single-line, comma-delimited, and reversible for
// downstream tooling.
//
// Two encodings exist side by side and are intentionally asymmetric.
// The detailed rules (AppendRune) double embedded quotes and escape
// commas, backslashes, control characters, and anything outside the
// printable ASCII range. The unbuffered rules (AppendUnbufferedRune)
// let commas through untouched because that path only ever carries the
// final field of a line. Separately, double-quoted fields produced by
// the builder escape quotes with a backslash instead of doubling them.
// All three conventions have consumers that parse them as-is, so none
// may be unified or "fixed".
//
// Decode and SplitFields run the opposite direction: they take a raw
// line back apart into decoded fields. They accept the detailed and
// the double-quoted convention at once, which is what a real line
// mixes.
package escape
