package fanlog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/sivaosorg/fanlog/internal/telemetry"
)

// Severity defines the logging severity level as an unsigned 32-bit integer.
// Higher values indicate more important records.
type Severity uint32

// Sink is a single output destination for rendered records. Each sink carries its own
// threshold, independent of the thresholds of the loggers it is attached to.
type Sink interface {
	// Write appends the rendered record to the destination.
	Write(record string) error
	// Flush forces buffered output to the destination.
	Flush() error
	// SetLevel changes the sink's minimum severity.
	SetLevel(level Severity)
	// Enabled reports whether a record of the given severity passes the sink's threshold.
	Enabled(level Severity) bool
}

// Logger fans a rendered record out to an ordered collection of sinks. It includes the
// logger's identifier, its severity threshold, the attached sinks and rendering settings.
type Logger struct {
	mu         sync.Mutex
	name       string           // Immutable identity, used as the registry key.
	minLevel   Severity         // Minimum severity level to log; lower levels are ignored.
	sinks      []Sink           // Attached sinks, in attachment order.
	timeFormat string           // Format for timestamps (Go reference time format).
	useUTC     bool             // If true, log timestamps are in UTC; otherwise, local time.
	useColor   bool             // If false, the level tag is rendered without ANSI codes.
	clock      func() time.Time // Time source, sampled once per record.
	diag       *diagnostics     // Channel for the logger's own failures.
	metrics    *telemetry.Instruments

	formatOnce sync.Once
}

// Option defines a functional option for configuring a Logger instance during creation.
type Option func(*Logger)

// SinkOption configures a sink during construction.
type SinkOption func(*sinkOptions)

type sinkOptions struct {
	level      Severity
	threadSafe bool
	forceFlush bool
	truncate   bool
	fileMode   os.FileMode
	diag       io.Writer
}

// locker is the lock strategy of a sink: a real mutex or a no-op for callers that
// guarantee single-goroutine access.
type locker interface {
	Lock()
	Unlock()
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}
