package sink

import (
	"fmt"
	"os"
)

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) (Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &fileSink{f: f, open: true}, nil
}

type fileSink struct {
	f    *os.File
	open bool
}

func (s *fileSink) Write(p []byte) (int, error) {
	if !s.open {
		return 0, os.ErrClosed
	}
	return s.f.Write(p)
}

func (s *fileSink) IsOpen() bool { return s.open }

func (s *fileSink) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	return s.f.Close()
}

// NewTemp creates a sink over a fresh temporary file. The file handle
// survives Close so the caller can collect it through Detach and read
// what was logged.
func NewTemp() (Sink, error) {
	f, err := os.CreateTemp("", "evlog-*")
	if err != nil {
		return nil, fmt.Errorf("create temporary log: %w", err)
	}
	return &tempSink{f: f, open: true}, nil
}

type tempSink struct {
	f        *os.File
	open     bool
	detached bool
}

func (s *tempSink) Write(p []byte) (int, error) {
	if !s.open {
		return 0, os.ErrClosed
	}
	return s.f.Write(p)
}

func (s *tempSink) IsOpen() bool { return s.open }

// Close marks the sink closed. The handle stays open for Detach.
func (s *tempSink) Close() error {
	s.open = false
	return nil
}

// Detach surrenders the underlying handle. It returns nil after the
// first call; the caller owns the file from then on, including its
// position, which sits at the end of the written data.
func (s *tempSink) Detach() *os.File {
	if s.detached {
		return nil
	}
	s.detached = true
	return s.f
}
