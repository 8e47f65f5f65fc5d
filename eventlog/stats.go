package eventlog

import "sync/atomic"

// Stats tracks writer counters. All access is atomic, so monitoring
// never takes the log's lock.
type Stats struct {
	LinesWritten   uint64
	BytesWritten   uint64
	LinesTruncated uint64
	LinesDropped   uint64
	WriteFailures  uint64
}

func (s *Stats) addLine(n int, truncated bool) {
	atomic.AddUint64(&s.LinesWritten, 1)
	atomic.AddUint64(&s.BytesWritten, uint64(n))
	if truncated {
		atomic.AddUint64(&s.LinesTruncated, 1)
	}
}

func (s *Stats) addBytes(n int) {
	atomic.AddUint64(&s.BytesWritten, uint64(n))
}

func (s *Stats) addDropped() {
	atomic.AddUint64(&s.LinesDropped, 1)
}

func (s *Stats) addFailure() {
	atomic.AddUint64(&s.WriteFailures, 1)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	LinesWritten   uint64
	BytesWritten   uint64
	LinesTruncated uint64
	LinesDropped   uint64
	WriteFailures  uint64
}

// GetSnapshot returns a copy of the current counters. Each counter is
// loaded individually, which is consistent enough for monitoring.
func (s *Stats) GetSnapshot() Snapshot {
	return Snapshot{
		LinesWritten:   atomic.LoadUint64(&s.LinesWritten),
		BytesWritten:   atomic.LoadUint64(&s.BytesWritten),
		LinesTruncated: atomic.LoadUint64(&s.LinesTruncated),
		LinesDropped:   atomic.LoadUint64(&s.LinesDropped),
		WriteFailures:  atomic.LoadUint64(&s.WriteFailures),
	}
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	atomic.StoreUint64(&s.LinesWritten, 0)
	atomic.StoreUint64(&s.BytesWritten, 0)
	atomic.StoreUint64(&s.LinesTruncated, 0)
	atomic.StoreUint64(&s.LinesDropped, 0)
	atomic.StoreUint64(&s.WriteFailures, 0)
}
