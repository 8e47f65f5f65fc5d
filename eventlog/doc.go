// Package eventlog is the public API of evlog: a low-overhead,
// line-oriented event-log writer embedded in a managed runtime.
//
// A Log is constructed once per runtime instance and wired to its
// destination with Initialize. The target follows the runtime's
// log-file convention: "-" writes to the console, "&" writes to a
// temporary file whose handle Close hands back, and any other value
// names a file opened for appending.
//
//	log, err := eventlog.New(eventlog.Config{
//	    Settings: eventlog.Settings{Prof: true, LogTimerEvents: true},
//	})
//	if err != nil {
//	    return err
//	}
//	if err := log.Initialize("ev.log"); err != nil {
//	    return err
//	}
//	defer log.Close()
//
//	log.TimerEventStart("compile")
//	log.SharedLibraryEvent("/usr/lib/libc.so", 0x7f00, 0x7fff)
//
// Every line is built inside one MessageBuilder holding the log's
// single mutex from creation through Close, so concurrent emitters
// serialize and bytes from different lines never interleave in the
// sink. The shared line buffer is fixed-capacity and truncates
// silently; only the unbuffered append path may exceed it, streaming
// oversized payloads straight to the sink through a small scratch
// buffer.
//
// A failed or short flush write stops the log for good: the failure
// is reported once (stats, diagnostics, OnFailure) and every later
// flush is a no-op until Close and a fresh Initialize. Nothing the
// writer does is ever fatal to the host process.
package eventlog
