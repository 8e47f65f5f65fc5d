// Package sink provides the output destinations event-log lines are
// flushed to.
//
// Open selects a destination using the naming convention of the
// runtime's log-file option: "-" is standard output, "&" is a
// temporary file whose open handle is handed back when the log
// closes, and any other value names a file opened in append mode.
//
// A Sink reports a logical open state and the byte count of each
// write; the event log treats an error or a short count as a terminal
// write failure. Serializing writers is the log's job, so sink
// implementations carry no locking of their own.
package sink
