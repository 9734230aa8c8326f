// Package fanlog provides a level-filtered logger that fans every record out to any
// number of sinks, a registry of named loggers with an elected default, and a line
// builder that assembles one record from several pieces.
//
// Key features:
//   - Seven ranked severities (None, Trace, Debug, Info, Warning, Error, Fatal) with colored tags
//   - Per-logger and per-sink thresholds; a record reaches a sink only if it passes both
//   - Stream-backed, file-backed and in-memory sinks with a selectable lock strategy
//   - Sinks that fail are degraded and reported once, never crashing the caller
//   - Registry with lookup by name, a default logger and package-level helpers
package fanlog

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/sivaosorg/fanlog/internal/telemetry"
)

// New creates a Logger named name. Without options the logger has no sinks, a threshold
// of ErrorIssuer, local timestamps in DefaultTimeFormat and colored level tags.
//
// Example:
//
//	console := NewStdoutSink(WithSinkLevel(WarningIssuer))
//	logger := New("svc", WithLevel(InfoIssuer), WithSinks(console))
func New(name string, opts ...Option) *Logger {
	l := &Logger{
		name:       name,
		minLevel:   DefaultLoggerLevel,
		timeFormat: DefaultTimeFormat,
		useUTC:     false,
		useColor:   true,
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.diag == nil {
		l.diag = newDiagnostics(nil)
	}
	if l.metrics == nil {
		l.metrics = telemetry.New(nil, name)
	}
	return l
}

// WithSinks attaches sinks in the given order. Nil sinks are skipped.
func WithSinks(sinks ...Sink) Option {
	return func(l *Logger) {
		for _, s := range sinks {
			if s != nil {
				l.sinks = append(l.sinks, s)
			}
		}
	}
}

// WithLevel sets the logger's threshold.
func WithLevel(level Severity) Option {
	return func(l *Logger) {
		if level.Valid() {
			l.minLevel = level
		}
	}
}

// WithTimeFormat returns an Option that sets a custom time format for log records.
// The format should be specified using Go's reference time (Mon Jan 2 15:04:05 MST 2006).
func WithTimeFormat(format string) Option {
	return func(l *Logger) {
		if format != "" {
			l.timeFormat = format
		}
	}
}

// WithUTC returns an Option that configures the Logger to use UTC for timestamps if set
// to true, or the local time zone if false.
func WithUTC(utc bool) Option {
	return func(l *Logger) {
		l.useUTC = utc
	}
}

// WithClock replaces the time source.
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithColor turns the ANSI colors of the level tag on or off.
func WithColor(enabled bool) Option {
	return func(l *Logger) {
		l.useColor = enabled
	}
}

// WithMeterProvider reports the logger's counters to provider instead of the global
// meter provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(l *Logger) {
		l.metrics = telemetry.New(provider, l.name)
	}
}

// WithDiagnostics routes the logger's own failure notices to w.
func WithDiagnostics(w io.Writer) Option {
	return func(l *Logger) {
		l.diag = newDiagnostics(w)
	}
}

// Name returns the logger's identifier.
func (l *Logger) Name() string {
	return l.name
}

// SetLevel changes the Logger's minimum severity at runtime. Unknown severities are ignored.
func (l *Logger) SetLevel(level Severity) {
	if !level.Valid() {
		return
	}
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

// Level returns the current minimum severity.
func (l *Logger) Level() Severity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.minLevel
}

// Enabled reports whether a record at level passes the logger's threshold.
func (l *Logger) Enabled(level Severity) bool {
	return ShouldLog(level, l.Level())
}

// AddSink appends s to the attached sinks. The same sink may be attached to any number
// of loggers.
func (l *Logger) AddSink(s Sink) {
	if s == nil {
		l.diag.report("logger "+l.name, ErrNilSink)
		return
	}
	l.mu.Lock()
	l.sinks = append(l.sinks, s)
	l.mu.Unlock()
}

// RemoveSink detaches the first attached sink identical to s and reports whether one
// was found. The sink itself stays usable by anyone else holding it.
func (l *Logger) RemoveSink(s Sink) bool {
	if s == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.sinks {
		if sameSink(existing, s) {
			l.sinks = append(l.sinks[:i:i], l.sinks[i+1:]...)
			return true
		}
	}
	return false
}

// Sinks returns the attached sinks in attachment order.
func (l *Logger) Sinks() []Sink {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Sink, len(l.sinks))
	copy(out, l.sinks)
	return out
}

// Flush flushes every attached sink and returns their errors joined.
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var errs []error
	for _, s := range l.sinks {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors(errs)
}

// Log renders one record from msg and offers it to every sink whose threshold passes.
// The parts of msg are combined with fmt.Sprint.
//
// Example:
//
//	logger.Log(ErrorIssuer, "failed: ", err)
func (l *Logger) Log(level Severity, msg ...interface{}) {
	l.emit(level, sprint(msg))
}

// Logf is Log with a fmt.Sprintf message. A format that does not match its arguments
// still produces a record, carrying fmt's annotations such as "%!d(string=x)"; the
// mismatch is reported once on the diagnostic channel.
func (l *Logger) Logf(level Severity, format string, args ...interface{}) {
	if !l.Enabled(level) {
		l.metrics.Filtered(level.String())
		return
	}
	msg := fmt.Sprintf(format, args...)
	if formatMismatch(format, msg, args) {
		l.metrics.FormatFallback(level.String())
		l.formatOnce.Do(func() {
			l.diag.report("logger "+l.name, errors.Errorf("format %q does not match its arguments", format))
		})
	}
	l.emit(level, msg)
}

// emit renders the record once, with a single timestamp, and dispatches it in
// attachment order. The whole operation holds the logger lock.
func (l *Logger) emit(level Severity, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	levelName := level.String()
	if !ShouldLog(level, l.minLevel) {
		l.metrics.Filtered(levelName)
		return
	}
	record := l.render(level, message)
	l.metrics.Rendered(levelName)
	for _, s := range l.sinks {
		if !s.Enabled(level) {
			continue
		}
		err := s.Write(record)
		l.metrics.SinkWrite(levelName, err == nil)
	}
}

// render builds "[<timestamp>] (<name>) <color><LEVEL><reset>: <message>\n".
func (l *Logger) render(level Severity, message string) string {
	clock := l.clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	if l.useUTC {
		now = now.UTC()
	}
	var b strings.Builder
	b.Grow(64 + len(l.name) + len(message))
	b.WriteByte('[')
	timeFormat := l.timeFormat
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}
	b.WriteString(now.Format(timeFormat))
	b.WriteString("] (")
	b.WriteString(l.name)
	b.WriteString(") ")
	b.WriteString(level.tag(l.useColor))
	b.WriteString(": ")
	b.WriteString(message)
	b.WriteByte('\n')
	return b.String()
}

// Stream returns a LineBuilder bound to this logger and level.
func (l *Logger) Stream(level Severity) *LineBuilder {
	return &LineBuilder{logger: l, level: level}
}

// Line runs fn with a fresh LineBuilder and submits what fn appended as one record,
// on every exit path of fn.
//
// Example:
//
//	logger.Line(InfoIssuer, func(b *LineBuilder) {
//		b.Append("x=", x, ", ok")
//	})
func (l *Logger) Line(level Severity, fn func(*LineBuilder)) {
	b := l.Stream(level)
	defer b.Close()
	fn(b)
}

// Trace logs a trace-level message.
func (l *Logger) Trace(msg ...interface{}) { l.Log(TraceIssuer, msg...) }

// Tracef logs a formatted trace-level message.
func (l *Logger) Tracef(format string, args ...interface{}) { l.Logf(TraceIssuer, format, args...) }

// Debug logs a debug-level message.
func (l *Logger) Debug(msg ...interface{}) { l.Log(DebugIssuer, msg...) }

// Debugf logs a formatted debug-level message.
func (l *Logger) Debugf(format string, args ...interface{}) { l.Logf(DebugIssuer, format, args...) }

// Info logs an informational message.
func (l *Logger) Info(msg ...interface{}) { l.Log(InfoIssuer, msg...) }

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...interface{}) { l.Logf(InfoIssuer, format, args...) }

// Warning logs a warning message.
func (l *Logger) Warning(msg ...interface{}) { l.Log(WarningIssuer, msg...) }

// Warningf logs a formatted warning message.
func (l *Logger) Warningf(format string, args ...interface{}) { l.Logf(WarningIssuer, format, args...) }

// Error logs an error message.
func (l *Logger) Error(msg ...interface{}) { l.Log(ErrorIssuer, msg...) }

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) { l.Logf(ErrorIssuer, format, args...) }

// Fatal logs a fatal message. It does not panic or exit; what happens next is up to
// the caller.
func (l *Logger) Fatal(msg ...interface{}) { l.Log(FatalIssuer, msg...) }

// Fatalf logs a formatted fatal message. Like Fatal, it returns normally.
func (l *Logger) Fatalf(format string, args ...interface{}) { l.Logf(FatalIssuer, format, args...) }

func sprint(msg []interface{}) string {
	switch len(msg) {
	case 0:
		return ""
	case 1:
		if s, ok := msg[0].(string); ok {
			return s
		}
	}
	return fmt.Sprint(msg...)
}

// formatMismatch reports whether fmt annotated msg with "%!" markers of its own. Markers
// carried in by the arguments' text, or written in the format, are not counted.
func formatMismatch(format, msg string, args []interface{}) bool {
	found := strings.Count(msg, "%!")
	if found == 0 {
		return false
	}
	found -= strings.Count(format, "%!")
	for _, arg := range args {
		found -= strings.Count(fmt.Sprint(arg), "%!")
	}
	return found > 0
}

// sameSink compares sinks by identity. Sinks whose dynamic type is not comparable are
// never equal, instead of panicking.
func sameSink(a, b Sink) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
