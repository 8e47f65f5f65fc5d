package eventlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eviltalk/evlog/core"
	"github.com/eviltalk/evlog/sink"
)

var (
	// ErrNegativeSize reports a negative buffer capacity in Config.
	ErrNegativeSize = errors.New("eventlog: negative buffer size")
	// ErrNegativeRate reports a negative line rate in Config.
	ErrNegativeRate = errors.New("eventlog: negative line rate")
	// ErrInitialized reports an Initialize call while a sink is open.
	ErrInitialized = errors.New("eventlog: already initialized")
)

// Config controls a Log instance. The zero value is usable: default
// buffer capacity, no categories, no-op diagnostics.
type Config struct {
	// BufferSize is the shared line buffer capacity in bytes.
	// Defaults to core.DefaultCapacity.
	BufferSize int

	// Settings selects the event categories to emit.
	Settings Settings

	// Embedder optionally tags the version banner.
	Embedder string

	// Diag receives the writer's own diagnostics, such as sink open
	// and write failures. Nothing here ever reaches the event stream.
	// Defaults to a no-op logger.
	Diag *zap.Logger

	// OnFailure is called once when a flush write fails and the log
	// stops. It runs with the log's lock held and must not call back
	// into the log.
	OnFailure func(error)

	// MaxLineRate caps emitted lines per second. Zero means no cap.
	// Lines over the cap are dropped before lock acquisition and
	// counted in the stats; they never block.
	MaxLineRate int
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BufferSize < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSize, c.BufferSize)
	}
	if c.MaxLineRate < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeRate, c.MaxLineRate)
	}
	return nil
}

func (c Config) applyDefaults() Config {
	if c.BufferSize == 0 {
		c.BufferSize = core.DefaultCapacity
	}
	if c.Diag == nil {
		c.Diag = zap.NewNop()
	}
	c.Settings = c.Settings.normalized()
	return c
}

// Log is a runtime-scoped event-log writer. A single mutex serializes
// all line construction; the shared buffer and the sink are touched
// only with it held. Construct with New, wire an output with
// Initialize, and emit through the typed event methods or NewMessage.
type Log struct {
	// stats leads the struct so its uint64 counters stay 64-bit
	// aligned on 32-bit hosts.
	stats Stats

	cfg     Config
	limiter *rate.Limiter
	epoch   time.Time

	mu         sync.Mutex
	buf        *core.LineBuffer
	out        sink.Sink
	stopped    bool
	tempTarget bool
}

// New constructs a Log from cfg. The log emits nothing until
// Initialize gives it a buffer and a sink.
func New(cfg Config) (*Log, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.applyDefaults()
	l := &Log{cfg: cfg, epoch: time.Now()}
	if cfg.MaxLineRate > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(cfg.MaxLineRate), cfg.MaxLineRate)
	}
	return l, nil
}

// Settings returns the normalized category settings.
func (l *Log) Settings() Settings { return l.cfg.Settings }

// Stats exposes the writer's counters.
func (l *Log) Stats() *Stats { return &l.stats }

// Initialize allocates the line buffer and, when any category is
// enabled, opens the sink named by target: "-" for the console, "&"
// for a temporary file handed back on Close, anything else as a file
// path opened for appending. On success the version banner is the
// first line written. A failed sink open is returned and leaves the
// log running without output.
func (l *Log) Initialize(target string) error {
	l.mu.Lock()
	if l.out != nil {
		l.mu.Unlock()
		return ErrInitialized
	}
	l.buf = core.NewLineBuffer(l.cfg.BufferSize)
	l.stopped = false
	l.tempTarget = false
	if !l.cfg.Settings.active() {
		l.mu.Unlock()
		return nil
	}
	out, err := sink.Open(target)
	if err != nil {
		l.mu.Unlock()
		l.cfg.Diag.Warn("event log left without sink",
			zap.String("target", target), zap.Error(err))
		return fmt.Errorf("initialize event log: %w", err)
	}
	l.out = out
	l.tempTarget = target == sink.TempTarget
	l.mu.Unlock()

	l.emitBanner()
	return nil
}

// InitializeWithSink allocates the line buffer and wires an already
// open sink, bypassing target selection. A nil sink leaves the log
// buffer-only. No banner is emitted on this path.
func (l *Log) InitializeWithSink(s sink.Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf = core.NewLineBuffer(l.cfg.BufferSize)
	l.stopped = false
	l.tempTarget = false
	l.out = s
}

// Close tears the log down from any state: the sink is closed, the
// buffer released, and the stopped flag cleared so a later Initialize
// starts fresh. When the log was initialized with the temporary-file
// target, the still-open handle is detached and returned; its read
// position sits at the end of the written data. Close is idempotent
// and returns (nil, nil) once torn down.
func (l *Log) Close() (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var f *os.File
	var err error
	if l.out != nil {
		if l.tempTarget {
			if d, ok := l.out.(sink.Detachable); ok {
				f = d.Detach()
			}
		}
		err = l.out.Close()
		l.out = nil
	}
	l.buf = nil
	l.stopped = false
	l.tempTarget = false
	return f, err
}

// Stopped reports whether a write failure has disabled flushing. Do
// not call with a live MessageBuilder; it takes the log's lock.
func (l *Log) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// flushLocked terminates the accumulated line and writes it in one
// call. The caller holds mu. Stopped logs, missing sinks, and closed
// sinks all turn the flush into a no-op.
func (l *Log) flushLocked() error {
	if l.stopped || l.buf == nil || l.out == nil || !l.out.IsOpen() {
		return nil
	}
	truncated := l.buf.Truncated()
	if l.buf.Full() {
		// Sacrifice the last content byte so the newline still fits.
		l.buf.TrimLast()
		truncated = true
	}
	l.buf.AppendByte('\n')
	line := l.buf.Bytes()
	n, err := l.out.Write(line)
	if err == nil && n != len(line) {
		err = io.ErrShortWrite
	}
	if err != nil {
		l.stopped = true
		l.stats.addFailure()
		l.cfg.Diag.Error("event log write failed, logging stopped",
			zap.Int("written", n), zap.Int("expected", len(line)), zap.Error(err))
		if l.cfg.OnFailure != nil {
			l.cfg.OnFailure(err)
		}
		return err
	}
	l.stats.addLine(n, truncated)
	return nil
}

// writeUnbufferedLocked sends bytes straight to the sink, bypassing
// the line buffer. The caller holds mu. Short writes on this path go
// unchecked; the flush that terminates the line performs the stop
// check for it.
func (l *Log) writeUnbufferedLocked(p []byte) {
	if l.stopped || l.out == nil || !l.out.IsOpen() {
		return
	}
	n, _ := l.out.Write(p)
	l.stats.addBytes(n)
}
