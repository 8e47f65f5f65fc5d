package eventlog

import "strings"

// Category identifies one class of events the runtime can emit.
type Category int8

const (
	// CategoryAPI covers calls crossing the embedder API boundary.
	CategoryAPI Category = iota
	// CategoryCode covers code creation, movement, and deletion.
	CategoryCode
	// CategoryGC covers heap sampling around collections.
	CategoryGC
	// CategorySuspect covers object reads the runtime flags as suspicious.
	CategorySuspect
	// CategoryHandles covers handle lifecycle events.
	CategoryHandles
	// CategoryTimerEvents covers internal timer spans.
	CategoryTimerEvents
)

// String returns the category name as it appears on flag surfaces.
func (c Category) String() string {
	switch c {
	case CategoryAPI:
		return "api"
	case CategoryCode:
		return "code"
	case CategoryGC:
		return "gc"
	case CategorySuspect:
		return "suspect"
	case CategoryHandles:
		return "handles"
	case CategoryTimerEvents:
		return "timer-events"
	default:
		return "unknown"
	}
}

// ParseCategory converts a flag-surface name to a Category.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(s) {
	case "api":
		return CategoryAPI, true
	case "code":
		return CategoryCode, true
	case "gc":
		return CategoryGC, true
	case "suspect":
		return CategorySuspect, true
	case "handles":
		return CategoryHandles, true
	case "timer-events":
		return CategoryTimerEvents, true
	default:
		return 0, false
	}
}

// Settings selects which event categories an initialized Log emits.
// The zero value logs nothing and keeps Initialize from opening any
// sink.
type Settings struct {
	// Log enables the plain string/int event stream.
	Log bool
	// LogAll turns on every category below.
	LogAll bool

	LogAPI         bool
	LogCode        bool
	LogGC          bool
	LogSuspect     bool
	LogHandles     bool
	LogTimerEvents bool

	// Prof enables profiler events. Profiling needs code events, so
	// Prof implies LogCode.
	Prof bool
}

// normalized folds the umbrella flags into the individual categories.
func (s Settings) normalized() Settings {
	if s.LogAll {
		s.LogAPI = true
		s.LogCode = true
		s.LogGC = true
		s.LogSuspect = true
		s.LogHandles = true
		s.LogTimerEvents = true
	}
	if s.Prof {
		s.LogCode = true
	}
	return s
}

// active reports whether anything at all asks for a sink.
func (s Settings) active() bool {
	return s.Log || s.LogAll || s.LogAPI || s.LogCode || s.LogGC ||
		s.LogSuspect || s.LogHandles || s.LogTimerEvents || s.Prof
}

// Enabled reports whether events of category c get emitted.
func (s Settings) Enabled(c Category) bool {
	switch c {
	case CategoryAPI:
		return s.LogAPI
	case CategoryCode:
		return s.LogCode
	case CategoryGC:
		return s.LogGC
	case CategorySuspect:
		return s.LogSuspect
	case CategoryHandles:
		return s.LogHandles
	case CategoryTimerEvents:
		return s.LogTimerEvents
	default:
		return false
	}
}
