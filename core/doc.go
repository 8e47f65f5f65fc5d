// Package core defines the shared low-level types of the evlog writer.
//
// LineBuffer is the fixed-capacity accumulator every log line is built
// in. Its appends saturate instead of growing: a render that does not
// fit is cut at the capacity boundary and the cursor never moves past
// it. Capacity, current length, and the truncation state stay
// queryable so callers and tests can observe the bounds directly.
//
// HeapString and Symbol describe managed runtime values handed to the
// writer. They carry the representation metadata (one- or two-byte,
// external, interned) that the detailed escape path reports, without
// giving the writer any view into the runtime's heap beyond the string
// content itself.
package core
