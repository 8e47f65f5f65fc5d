package eventlog

import (
	"github.com/eviltalk/evlog/core"
	"github.com/eviltalk/evlog/escape"
)

// maxDetailedRunes caps the code units one AppendDetailed call
// processes, independent of the buffer capacity.
const maxDetailedRunes = 0x1000

// MessageBuilder accumulates exactly one log line. It holds the log's
// mutex from creation until Close, so at most one builder is live per
// Log and concurrent emitters never interleave bytes in the sink.
type MessageBuilder struct {
	log    *Log
	buf    *core.LineBuffer // nil when the builder is inert
	locked bool
	done   bool
}

// NewMessage acquires exclusive access to the shared line buffer and
// returns a builder for one line, blocking until any live builder is
// closed. If the log is uninitialized, or the configured line rate
// rejects the line, the builder comes back inert: every append and
// Flush is a no-op and no lock is held. Always Close the builder.
func (l *Log) NewMessage() *MessageBuilder {
	if l.limiter != nil && !l.limiter.Allow() {
		l.stats.addDropped()
		return &MessageBuilder{log: l}
	}
	return l.message()
}

// message acquires the lock unconditionally. The version banner comes
// through here so it never counts against the line rate.
func (l *Log) message() *MessageBuilder {
	l.mu.Lock()
	if l.buf == nil {
		l.mu.Unlock()
		return &MessageBuilder{log: l}
	}
	l.buf.Reset()
	return &MessageBuilder{log: l, buf: l.buf, locked: true}
}

// Appendf renders a formatted field into the line, truncating at the
// buffer boundary rather than growing.
func (b *MessageBuilder) Appendf(format string, args ...any) {
	if b.buf == nil {
		return
	}
	b.buf.Appendf(format, args...)
}

// AppendChar appends one byte; ignored once the buffer is full.
func (b *MessageBuilder) AppendChar(c byte) {
	if b.buf == nil {
		return
	}
	b.buf.AppendByte(c)
}

// AppendText appends s as-is, cut at the buffer boundary.
func (b *MessageBuilder) AppendText(s string) {
	if b.buf == nil {
		return
	}
	b.buf.AppendString(s)
}

// AppendBytes appends a raw span, cut at the buffer boundary.
func (b *MessageBuilder) AppendBytes(p []byte) {
	if b.buf == nil {
		return
	}
	b.buf.AppendSpan(p)
}

// AppendDoubleQuoted appends s wrapped in double quotes with every
// embedded quote preceded by a backslash. It works byte by byte so
// the usual truncation rules cover the quotes and escapes too.
func (b *MessageBuilder) AppendDoubleQuoted(s string) {
	if b.buf == nil {
		return
	}
	b.buf.AppendByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			b.buf.AppendByte('\\')
		}
		b.buf.AppendByte(s[i])
	}
	b.buf.AppendByte('"')
}

// AppendHeapString appends str unescaped, each code unit reduced to
// its low byte. Callers needing quote or comma safety go through
// AppendDetailed instead.
func (b *MessageBuilder) AppendHeapString(str core.HeapString) {
	if b.buf == nil {
		return
	}
	for _, c := range str.Text {
		b.buf.AppendByte(byte(c))
	}
}

// AppendAddress appends v as 0x-prefixed lowercase hex.
func (b *MessageBuilder) AppendAddress(v uintptr) {
	b.Appendf("0x%x", v)
}

// AppendSymbolName appends the symbol(...) rendition: the
// detail-escaped description when the symbol has one, then the hash.
func (b *MessageBuilder) AppendSymbolName(sym core.Symbol) {
	if b.buf == nil {
		return
	}
	b.buf.AppendString("symbol(")
	if sym.Name != nil {
		b.buf.AppendByte('"')
		b.appendDetailed(*sym.Name, false)
		b.buf.AppendString("\" ")
	}
	b.Appendf("hash %x)", sym.Hash)
}

// AppendDetailed appends str under the detailed escape rules,
// processing at most maxDetailedRunes code units. With showMeta, a
// representation tag and the untruncated length prefix the content:
// 'a' for one-byte or '2' for two-byte, 'e' if external, '#' if
// interned, then :<length>:.
func (b *MessageBuilder) AppendDetailed(str core.HeapString, showMeta bool) {
	if b.buf == nil {
		return
	}
	b.appendDetailed(str, showMeta)
}

func (b *MessageBuilder) appendDetailed(str core.HeapString, showMeta bool) {
	if showMeta {
		if str.TwoByte {
			b.buf.AppendByte('2')
		} else {
			b.buf.AppendByte('a')
		}
		if str.External {
			b.buf.AppendByte('e')
		}
		if str.Interned {
			b.buf.AppendByte('#')
		}
		b.buf.Appendf(":%d:", str.Len())
	}
	var seq [8]byte
	count := 0
	for _, c := range str.Text {
		if count == maxDetailedRunes {
			break
		}
		count++
		b.buf.AppendSpan(escape.AppendRune(seq[:0], c))
	}
}

// AppendUnbufferedChar writes one byte straight to the sink, skipping
// the line buffer.
func (b *MessageBuilder) AppendUnbufferedChar(c byte) {
	if b.buf == nil {
		return
	}
	b.log.writeUnbufferedLocked([]byte{c})
}

// AppendUnbufferedText writes s straight to the sink as-is. Callers
// use it for preformatted prefixes on lines whose payload takes the
// unbuffered path.
func (b *MessageBuilder) AppendUnbufferedText(s string) {
	if b.buf == nil {
		return
	}
	b.log.writeUnbufferedLocked([]byte(s))
}

// AppendUnbufferedString writes str to the sink under the unbuffered
// escape rules, batching output through a fixed 16-byte scratch so
// arbitrarily long content never grows any buffer. No representation
// metadata exists on this path, and commas pass through unescaped.
func (b *MessageBuilder) AppendUnbufferedString(str core.HeapString) {
	if b.buf == nil {
		return
	}
	var scratch [16]byte
	var seq [8]byte
	pending := scratch[:0]
	for _, c := range str.Text {
		chunk := escape.AppendUnbufferedRune(seq[:0], c)
		if len(pending)+len(chunk) > len(scratch) {
			b.log.writeUnbufferedLocked(pending)
			pending = scratch[:0]
		}
		pending = append(pending, chunk...)
	}
	if len(pending) > 0 {
		b.log.writeUnbufferedLocked(pending)
	}
}

// Flush terminates the line with one newline and writes the whole
// accumulated span in a single sink call. The accumulated content must
// not already end in a newline; the framing is Flush's job. The first
// Flush per builder does the write; later calls are no-ops. A failed
// or short write stops the log permanently and reports once through
// the stats, the diagnostics logger, and OnFailure.
func (b *MessageBuilder) Flush() error {
	if b.buf == nil || b.done {
		return nil
	}
	b.done = true
	return b.log.flushLocked()
}

// Close releases the log's lock. Closing without Flush abandons the
// line: nothing reaches the sink. Close is idempotent.
func (b *MessageBuilder) Close() {
	if !b.locked {
		return
	}
	b.locked = false
	b.buf = nil
	b.log.mu.Unlock()
}
