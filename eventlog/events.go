package eventlog

import (
	"fmt"
	"time"

	"github.com/eviltalk/evlog/core"
)

// The typed emitters compose the runtime's standard line shapes out of
// builder calls: one builder, one line, one flush each. Every emitter
// checks its category first so disabled streams cost one branch.

// StringEvent emits name,value on the plain stream.
func (l *Log) StringEvent(name, value string) {
	if !l.cfg.Settings.Log {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.Appendf("%s,%s", name, value)
	b.Flush()
}

// IntEvent emits name,value on the plain stream.
func (l *Log) IntEvent(name string, value int64) {
	if !l.cfg.Settings.Log {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.Appendf("%s,%d", name, value)
	b.Flush()
}

// HandleEvent emits name,0x<location> for a handle lifecycle event.
func (l *Log) HandleEvent(name string, location uintptr) {
	if !l.cfg.Settings.Enabled(CategoryHandles) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.Appendf("%s,0x%x", name, location)
	b.Flush()
}

// ApiEntryCall emits api,<name> when an embedder API entry point runs.
func (l *Log) ApiEntryCall(name string) {
	if !l.cfg.Settings.Enabled(CategoryAPI) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.Appendf("api,%s", name)
	b.Flush()
}

// CodeCreateEvent emits code-creation,<tag>,0x<addr>,<size>,"<name>"
// with the name detail-escaped.
func (l *Log) CodeCreateEvent(tag string, addr uintptr, size int, name core.HeapString) {
	if !l.cfg.Settings.Enabled(CategoryCode) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.Appendf("code-creation,%s,0x%x,%d,", tag, addr, size)
	b.AppendChar('"')
	b.AppendDetailed(name, false)
	b.AppendChar('"')
	b.Flush()
}

// CodeMoveEvent emits code-move,0x<from>,0x<to>.
func (l *Log) CodeMoveEvent(from, to uintptr) {
	if !l.cfg.Settings.Enabled(CategoryCode) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.AppendText("code-move,")
	b.AppendAddress(from)
	b.AppendChar(',')
	b.AppendAddress(to)
	b.Flush()
}

// CodeDeleteEvent emits code-delete,0x<addr>.
func (l *Log) CodeDeleteEvent(addr uintptr) {
	if !l.cfg.Settings.Enabled(CategoryCode) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.AppendText("code-delete,")
	b.AppendAddress(addr)
	b.Flush()
}

// ScriptSourceEvent emits the full source of a script. Sources can
// dwarf the line buffer, so the entire line takes the unbuffered path
// and the closing flush only terminates it.
func (l *Log) ScriptSourceEvent(id int, url string, source core.HeapString) {
	if !l.cfg.Settings.Enabled(CategoryCode) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.AppendUnbufferedText(fmt.Sprintf("script-source,%d,\"%s\",", id, url))
	b.AppendUnbufferedString(source)
	b.Flush()
}

// HeapSampleBeginEvent emits heap-sample-begin,"<space>","<kind>",<count>
// when a collection sample opens.
func (l *Log) HeapSampleBeginEvent(space, kind string, count int) {
	if !l.cfg.Settings.Enabled(CategoryGC) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.Appendf("heap-sample-begin,\"%s\",\"%s\",%d", space, kind, count)
	b.Flush()
}

// HeapSampleEndEvent emits heap-sample-end,"<space>","<kind>".
func (l *Log) HeapSampleEndEvent(space, kind string) {
	if !l.cfg.Settings.Enabled(CategoryGC) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.Appendf("heap-sample-end,\"%s\",\"%s\"", space, kind)
	b.Flush()
}

// SuspectReadEvent emits suspect-read,<class>,"<name>". The name goes
// out raw between plain quotes, matching what the suspect stream's
// consumers parse.
func (l *Log) SuspectReadEvent(class string, name core.HeapString) {
	if !l.cfg.Settings.Enabled(CategorySuspect) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.AppendText("suspect-read,")
	b.AppendText(class)
	b.AppendChar(',')
	b.AppendChar('"')
	b.AppendHeapString(name)
	b.AppendChar('"')
	b.Flush()
}

// SuspectReadSymbolEvent is SuspectReadEvent for symbol-named reads.
func (l *Log) SuspectReadSymbolEvent(class string, sym core.Symbol) {
	if !l.cfg.Settings.Enabled(CategorySuspect) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.AppendText("suspect-read,")
	b.AppendText(class)
	b.AppendChar(',')
	b.AppendSymbolName(sym)
	b.Flush()
}

// TimerEventStart emits timer-event-start,"<name>",<elapsed> with the
// microseconds since the log was constructed.
func (l *Log) TimerEventStart(name string) {
	l.timerEvent("timer-event-start", name)
}

// TimerEventEnd emits the matching timer-event-end line.
func (l *Log) TimerEventEnd(name string) {
	l.timerEvent("timer-event-end", name)
}

func (l *Log) timerEvent(event, name string) {
	if !l.cfg.Settings.Enabled(CategoryTimerEvents) {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.Appendf("%s,\"%s\",%d", event, name, time.Since(l.epoch).Microseconds())
	b.Flush()
}

// SharedLibraryEvent emits shared-library,"<path>",0x<start>,0x<end>
// for the profiler's address-space map.
func (l *Log) SharedLibraryEvent(path string, start, end uintptr) {
	if !l.cfg.Settings.Prof {
		return
	}
	b := l.NewMessage()
	defer b.Close()
	b.AppendText("shared-library,")
	b.AppendDoubleQuoted(path)
	b.Appendf(",0x%x,0x%x", start, end)
	b.Flush()
}
