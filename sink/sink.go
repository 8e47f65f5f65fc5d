package sink

import (
	"io"
	"os"
)

const (
	// ConsoleTarget selects standard output.
	ConsoleTarget = "-"
	// TempTarget selects a temporary file whose handle outlives the
	// sink and is returned to the caller on close.
	TempTarget = "&"
)

// Sink is an open log destination. Write reports the number of bytes
// actually written; callers treat an error or a short count as a write
// failure. Implementations are single-writer.
type Sink interface {
	io.Writer

	// IsOpen reports whether the sink still accepts writes.
	IsOpen() bool

	// Close shuts the sink down. Closing a closed sink is a no-op.
	Close() error
}

// Detachable is implemented by sinks whose underlying file handle is
// surrendered to the caller instead of being closed with the sink.
type Detachable interface {
	Detach() *os.File
}

// Open opens the destination named by target: "-" for the console,
// "&" for a temporary file, anything else as a file path.
func Open(target string) (Sink, error) {
	switch target {
	case ConsoleTarget:
		return Console(), nil
	case TempTarget:
		return NewTemp()
	default:
		return OpenFile(target)
	}
}

// Console returns a sink writing to standard output. Close marks the
// sink closed but leaves os.Stdout alone.
func Console() Sink {
	return FromWriter(os.Stdout)
}

// FromWriter adapts an io.Writer into an open Sink. Close marks the
// sink closed without closing the writer.
func FromWriter(w io.Writer) Sink {
	return &writerSink{w: w}
}

type writerSink struct {
	w      io.Writer
	closed bool
}

func (s *writerSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, os.ErrClosed
	}
	return s.w.Write(p)
}

func (s *writerSink) IsOpen() bool { return !s.closed }

func (s *writerSink) Close() error {
	s.closed = true
	return nil
}
