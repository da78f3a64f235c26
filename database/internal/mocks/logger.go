// Package mocks holds the test doubles shared by the database packages.
package mocks

import (
	"fmt"
	"time"

	"github.com/reddwarf-io/reddwarf/logger"
)

// Logger is a no-op logger.Logger.
type Logger struct{}

var _ logger.Logger = (*Logger)(nil)
var _ logger.LogEvent = (*LogEvent)(nil)

func (l *Logger) Info() logger.LogEvent                     { return &LogEvent{} }
func (l *Logger) Error() logger.LogEvent                    { return &LogEvent{} }
func (l *Logger) Debug() logger.LogEvent                    { return &LogEvent{} }
func (l *Logger) Warn() logger.LogEvent                     { return &LogEvent{} }
func (l *Logger) Fatal() logger.LogEvent                    { return &LogEvent{} }
func (l *Logger) WithContext(_ any) logger.Logger           { return l }
func (l *Logger) WithFields(_ map[string]any) logger.Logger { return l }

// LogEvent discards everything.
type LogEvent struct{}

func (e *LogEvent) Str(_, _ string) logger.LogEvent              { return e }
func (e *LogEvent) Int(_ string, _ int) logger.LogEvent          { return e }
func (e *LogEvent) Int64(_ string, _ int64) logger.LogEvent      { return e }
func (e *LogEvent) Bool(_ string, _ bool) logger.LogEvent        { return e }
func (e *LogEvent) Dur(_ string, _ time.Duration) logger.LogEvent { return e }
func (e *LogEvent) Interface(_ string, _ any) logger.LogEvent    { return e }
func (e *LogEvent) Err(_ error) logger.LogEvent                  { return e }
func (e *LogEvent) Msg(_ string)                                 {}
func (e *LogEvent) Msgf(_ string, _ ...any)                      {}

// RecordingLogger keeps every message sent through it with its level and fields.
// Children created by WithFields record into the same list. It is not safe for
// concurrent use.
type RecordingLogger struct {
	entries *[]Entry
	fields  map[string]any
}

// Entry is one recorded message.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]any
	Err     error
}

var _ logger.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{entries: &[]Entry{}}
}

// Entries returns everything recorded so far.
func (l *RecordingLogger) Entries() []Entry {
	return *l.entries
}

// Last returns the most recent entry, or a zero Entry when nothing was logged.
func (l *RecordingLogger) Last() Entry {
	if len(*l.entries) == 0 {
		return Entry{}
	}
	return (*l.entries)[len(*l.entries)-1]
}

func (l *RecordingLogger) event(level string) logger.LogEvent {
	return &recordingEvent{owner: l, entry: Entry{Level: level, Fields: merge(l.fields, nil)}}
}

func (l *RecordingLogger) Info() logger.LogEvent           { return l.event("info") }
func (l *RecordingLogger) Error() logger.LogEvent          { return l.event("error") }
func (l *RecordingLogger) Debug() logger.LogEvent          { return l.event("debug") }
func (l *RecordingLogger) Warn() logger.LogEvent           { return l.event("warn") }
func (l *RecordingLogger) Fatal() logger.LogEvent          { return l.event("fatal") }
func (l *RecordingLogger) WithContext(_ any) logger.Logger { return l }

func (l *RecordingLogger) WithFields(fields map[string]any) logger.Logger {
	return &RecordingLogger{entries: l.entries, fields: merge(l.fields, fields)}
}

func merge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

type recordingEvent struct {
	owner *RecordingLogger
	entry Entry
}

func (e *recordingEvent) set(key string, v any) logger.LogEvent {
	e.entry.Fields[key] = v
	return e
}

func (e *recordingEvent) Str(k, v string) logger.LogEvent               { return e.set(k, v) }
func (e *recordingEvent) Int(k string, v int) logger.LogEvent           { return e.set(k, v) }
func (e *recordingEvent) Int64(k string, v int64) logger.LogEvent       { return e.set(k, v) }
func (e *recordingEvent) Bool(k string, v bool) logger.LogEvent         { return e.set(k, v) }
func (e *recordingEvent) Dur(k string, v time.Duration) logger.LogEvent { return e.set(k, v) }
func (e *recordingEvent) Interface(k string, v any) logger.LogEvent     { return e.set(k, v) }

func (e *recordingEvent) Err(err error) logger.LogEvent {
	e.entry.Err = err
	return e
}

func (e *recordingEvent) Msg(msg string) {
	e.entry.Message = msg
	*e.owner.entries = append(*e.owner.entries, e.entry)
}

func (e *recordingEvent) Msgf(format string, args ...any) {
	e.Msg(fmt.Sprintf(format, args...))
}
