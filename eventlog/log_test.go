package eventlog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/eviltalk/evlog/escape"
	"github.com/eviltalk/evlog/sink"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "zero config", cfg: Config{}, wantErr: nil},
		{name: "negative buffer", cfg: Config{BufferSize: -1}, wantErr: ErrNegativeSize},
		{name: "negative rate", cfg: Config{MaxLineRate: -5}, wantErr: ErrNegativeRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLog_InitializeWritesBanner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evlog.log")
	l, err := New(Config{Settings: Settings{LogCode: true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := l.Initialize(path); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if _, err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got, want := string(data), "evlog-version,1,2,0,0,0\n"; got != want {
		t.Errorf("log contents = %q, want %q", got, want)
	}
}

func TestLog_BannerCarriesEmbedder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evlog.log")
	l, err := New(Config{Settings: Settings{Log: true}, Embedder: "node"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := l.Initialize(path); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	line := strings.TrimSuffix(string(data), "\n")
	if want := "evlog-version,1,2,0,0,node,0"; line != want {
		t.Errorf("banner = %q, want %q", line, want)
	}

	fields := escape.SplitFields(line)
	if len(fields) != 7 {
		t.Fatalf("banner has %d fields, want 7", len(fields))
	}
	if fields[0] != BannerEvent {
		t.Errorf("banner event = %q, want %q", fields[0], BannerEvent)
	}
}

func TestLog_InitializeInactiveSettingsSkipsSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evlog.log")
	l, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := l.Initialize(path); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat(%q) error = %v, want not-exist", path, err)
	}
}

func TestLog_InitializeTwice(t *testing.T) {
	l, err := New(Config{Settings: Settings{Log: true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "evlog.log")
	if err := l.Initialize(path); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	defer l.Close()

	if err := l.Initialize(path); !errors.Is(err, ErrInitialized) {
		t.Errorf("second Initialize() error = %v, want ErrInitialized", err)
	}
}

func TestLog_InitializeBadPathLeavesLogUsable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing", "evlog.log")
	l, err := New(Config{Settings: Settings{Log: true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	err = l.Initialize(target)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Initialize() error = %v, want not-exist", err)
	}

	// The log runs on without a sink: emitting is safe and writes
	// nothing.
	l.StringEvent("tick", "1")
	if s := l.Stats().GetSnapshot(); s.LinesWritten != 0 {
		t.Errorf("LinesWritten = %d, want 0", s.LinesWritten)
	}
}

func TestLog_TempTargetCloseReturnsHandle(t *testing.T) {
	l, err := New(Config{Settings: Settings{LogCode: true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := l.Initialize(sink.TempTarget); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	l.CodeDeleteEvent(0x40)

	f, err := l.Close()
	if err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if f == nil {
		t.Fatal("Close() returned no handle for the temporary target")
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek() error: %v", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	want := "evlog-version,1,2,0,0,0\ncode-delete,0x40\n"
	if string(data) != want {
		t.Errorf("temp log contents = %q, want %q", string(data), want)
	}

	if f2, err := l.Close(); f2 != nil || err != nil {
		t.Errorf("second Close() = (%v, %v), want (nil, nil)", f2, err)
	}
}

func TestLog_ShortWriteStopsLog(t *testing.T) {
	var failures []error
	l, err := New(Config{
		Settings:  Settings{Log: true},
		OnFailure: func(err error) { failures = append(failures, err) },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	out := &shortSink{limit: 3}
	l.InitializeWithSink(out)

	b := l.NewMessage()
	b.AppendText("abcdef")
	if err := b.Flush(); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Flush() error = %v, want ErrShortWrite", err)
	}
	b.Close()

	if !l.Stopped() {
		t.Error("Stopped() = false after a short write")
	}
	s := l.Stats().GetSnapshot()
	if s.WriteFailures != 1 {
		t.Errorf("WriteFailures = %d, want 1", s.WriteFailures)
	}
	if s.LinesWritten != 0 {
		t.Errorf("LinesWritten = %d, want 0", s.LinesWritten)
	}
	if len(failures) != 1 || !errors.Is(failures[0], io.ErrShortWrite) {
		t.Errorf("OnFailure calls = %v, want one ErrShortWrite", failures)
	}

	// Stopped logs never touch the sink again.
	l.StringEvent("tick", "2")
	if out.calls != 1 {
		t.Errorf("sink writes = %d, want 1", out.calls)
	}
}

func TestLog_WriteErrorStopsLog(t *testing.T) {
	diskFull := errors.New("disk full")
	var failures []error
	l, err := New(Config{
		Settings:  Settings{Log: true},
		OnFailure: func(err error) { failures = append(failures, err) },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	l.InitializeWithSink(&errSink{err: diskFull})

	b := l.NewMessage()
	b.AppendText("tick")
	if err := b.Flush(); !errors.Is(err, diskFull) {
		t.Errorf("Flush() error = %v, want %v", err, diskFull)
	}
	b.Close()

	if !l.Stopped() {
		t.Error("Stopped() = false after a write error")
	}
	if len(failures) != 1 || !errors.Is(failures[0], diskFull) {
		t.Errorf("OnFailure calls = %v, want one %v", failures, diskFull)
	}
}

func TestLog_CloseResetsStopped(t *testing.T) {
	l, err := New(Config{Settings: Settings{Log: true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	l.InitializeWithSink(&errSink{err: errors.New("gone")})

	l.StringEvent("tick", "1")
	if !l.Stopped() {
		t.Fatal("Stopped() = false after a write error")
	}

	if _, err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if l.Stopped() {
		t.Error("Stopped() = true after Close")
	}

	var out bytes.Buffer
	l.InitializeWithSink(sink.FromWriter(&out))
	l.StringEvent("tick", "2")
	if got := out.String(); got != "tick,2\n" {
		t.Errorf("output after restart = %q, want %q", got, "tick,2\n")
	}
}

func TestLog_ConcurrentEmittersDoNotInterleave(t *testing.T) {
	const workers = 8
	const lines = 50

	l, err := New(Config{Settings: Settings{Log: true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	var out bytes.Buffer
	l.InitializeWithSink(sink.FromWriter(&out))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < lines; i++ {
				l.IntEvent(fmt.Sprintf("worker-%d", w), int64(i))
			}
		}(w)
	}
	wg.Wait()

	got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(got) != workers*lines {
		t.Fatalf("line count = %d, want %d", len(got), workers*lines)
	}
	wellFormed := regexp.MustCompile(`^worker-[0-7],[0-9]+$`)
	perWorker := make(map[string]int)
	for _, line := range got {
		if !wellFormed.MatchString(line) {
			t.Fatalf("interleaved or malformed line %q", line)
		}
		perWorker[strings.SplitN(line, ",", 2)[0]]++
	}
	for w := 0; w < workers; w++ {
		if n := perWorker[fmt.Sprintf("worker-%d", w)]; n != lines {
			t.Errorf("worker-%d wrote %d lines, want %d", w, n, lines)
		}
	}
	if s := l.Stats().GetSnapshot(); s.LinesWritten != workers*lines {
		t.Errorf("LinesWritten = %d, want %d", s.LinesWritten, workers*lines)
	}
}

func TestLog_MaxLineRateDropsExcess(t *testing.T) {
	const total = 50

	l, err := New(Config{Settings: Settings{Log: true}, MaxLineRate: 5})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	var out bytes.Buffer
	l.InitializeWithSink(sink.FromWriter(&out))

	for i := 0; i < total; i++ {
		l.IntEvent("tick", int64(i))
	}

	s := l.Stats().GetSnapshot()
	if s.LinesDropped == 0 {
		t.Error("LinesDropped = 0, want some lines over the cap dropped")
	}
	if s.LinesWritten+s.LinesDropped != total {
		t.Errorf("LinesWritten+LinesDropped = %d, want %d",
			s.LinesWritten+s.LinesDropped, total)
	}
	if n := uint64(strings.Count(out.String(), "\n")); n != s.LinesWritten {
		t.Errorf("sink lines = %d, stats say %d", n, s.LinesWritten)
	}
}

func TestLog_InitializeWithSinkNil(t *testing.T) {
	l, err := New(Config{Settings: Settings{Log: true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	l.InitializeWithSink(nil)

	l.StringEvent("tick", "1")
	l.TimerEventStart("parse")
	if s := l.Stats().GetSnapshot(); s.LinesWritten != 0 {
		t.Errorf("LinesWritten = %d, want 0", s.LinesWritten)
	}
	if l.Stopped() {
		t.Error("Stopped() = true on a buffer-only log")
	}
}

func TestStats_Reset(t *testing.T) {
	l, err := New(Config{Settings: Settings{Log: true}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	var out bytes.Buffer
	l.InitializeWithSink(sink.FromWriter(&out))

	l.StringEvent("tick", "1")
	if s := l.Stats().GetSnapshot(); s.LinesWritten != 1 {
		t.Fatalf("LinesWritten = %d, want 1", s.LinesWritten)
	}
	l.Stats().Reset()
	if s := l.Stats().GetSnapshot(); s != (Snapshot{}) {
		t.Errorf("snapshot after Reset = %+v, want zero", s)
	}
}

// shortSink accepts at most limit bytes per write and stays open.
type shortSink struct {
	limit int
	calls int
}

func (s *shortSink) Write(p []byte) (int, error) {
	s.calls++
	if len(p) > s.limit {
		return s.limit, nil
	}
	return len(p), nil
}

func (s *shortSink) IsOpen() bool { return true }
func (s *shortSink) Close() error { return nil }

// errSink fails every write.
type errSink struct {
	err   error
	calls int
}

func (s *errSink) Write(p []byte) (int, error) {
	s.calls++
	return 0, s.err
}

func (s *errSink) IsOpen() bool { return true }
func (s *errSink) Close() error { return nil }
