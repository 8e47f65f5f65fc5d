package benchmark

import "github.com/eviltalk/evlog/sink"

// discardSink accepts and forgets every write, so the numbers measure
// line construction instead of I/O.
type discardSink struct{}

func newDiscardSink() sink.Sink {
	return discardSink{}
}

func (discardSink) Write(p []byte) (int, error) {
	return len(p), nil
}

func (discardSink) IsOpen() bool {
	return true
}

func (discardSink) Close() error {
	return nil
}
