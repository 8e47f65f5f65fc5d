package core

import "fmt"

// DefaultCapacity is the line buffer size used when no explicit
// capacity is configured. One buffer of this size is shared by all
// lines of a log instance.
const DefaultCapacity = 4096

// LineBuffer is a fixed-capacity byte accumulator with a write cursor.
// Appends saturate at capacity: they truncate or become no-ops instead
// of growing the buffer or failing. The zero value is not usable; use
// NewLineBuffer.
type LineBuffer struct {
	buf       []byte
	pos       int
	truncated bool
}

// NewLineBuffer creates a buffer of the given capacity. Non-positive
// capacities fall back to DefaultCapacity.
func NewLineBuffer(capacity int) *LineBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LineBuffer{buf: make([]byte, capacity)}
}

// Len returns the number of bytes accumulated so far.
func (b *LineBuffer) Len() int { return b.pos }

// Cap returns the fixed capacity.
func (b *LineBuffer) Cap() int { return len(b.buf) }

// Full reports whether the cursor has reached capacity.
func (b *LineBuffer) Full() bool { return b.pos == len(b.buf) }

// Truncated reports whether any append since the last Reset was cut at
// the capacity boundary.
func (b *LineBuffer) Truncated() bool { return b.truncated }

// Bytes returns the accumulated span. The slice aliases the internal
// buffer and is valid only until the next append or Reset.
func (b *LineBuffer) Bytes() []byte { return b.buf[:b.pos] }

// Reset moves the cursor back to the start and clears the truncation
// state.
func (b *LineBuffer) Reset() {
	b.pos = 0
	b.truncated = false
}

// AppendByte writes a single byte. It is a no-op once the buffer is
// full.
func (b *LineBuffer) AppendByte(c byte) {
	if b.pos >= len(b.buf) {
		b.truncated = true
		return
	}
	b.buf[b.pos] = c
	b.pos++
}

// AppendSpan copies as much of p as fits. When no space remains it
// returns without touching the buffer, so a truncated line never
// carries partial bytes past the boundary.
func (b *LineBuffer) AppendSpan(p []byte) {
	if len(p) == 0 {
		return
	}
	if b.pos >= len(b.buf) {
		b.truncated = true
		return
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	if n < len(p) {
		b.truncated = true
	}
}

// AppendString copies as much of s as fits, under AppendSpan's rules.
func (b *LineBuffer) AppendString(s string) {
	if len(s) == 0 {
		return
	}
	if b.pos >= len(b.buf) {
		b.truncated = true
		return
	}
	n := copy(b.buf[b.pos:], s)
	b.pos += n
	if n < len(s) {
		b.truncated = true
	}
}

// Appendf renders a formatted field into the remaining space. A render
// that does not fit is cut at the boundary and the cursor saturates at
// capacity, making subsequent appends no-ops until Reset.
func (b *LineBuffer) Appendf(format string, args ...any) {
	if b.pos >= len(b.buf) {
		b.truncated = true
		return
	}
	// Hand fmt the tail of the buffer with length zero and capacity
	// clamped to the remaining space. A render that fits lands in
	// place; one that does not makes fmt reallocate, and the prefix
	// that fits is copied back.
	out := fmt.Appendf(b.buf[b.pos:b.pos:len(b.buf)], format, args...)
	if len(out) <= len(b.buf)-b.pos {
		b.pos += len(out)
		return
	}
	b.pos += copy(b.buf[b.pos:], out)
	b.truncated = true
}

// TrimLast drops the last accumulated byte, if any.
func (b *LineBuffer) TrimLast() {
	if b.pos > 0 {
		b.pos--
	}
}
