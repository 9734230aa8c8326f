package fanlog

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
)

func collectSinkOptions(opts []SinkOption) sinkOptions {
	o := sinkOptions{
		level:      DefaultSinkLevel,
		threadSafe: true,
		fileMode:   0o644,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithSinkLevel sets the sink's own threshold. The default is TraceIssuer.
func WithSinkLevel(level Severity) SinkOption {
	return func(o *sinkOptions) {
		o.level = level
	}
}

// WithThreadSafe selects the sink's lock strategy. With false the sink skips locking
// entirely and the caller must guarantee it is used from a single goroutine.
func WithThreadSafe(enabled bool) SinkOption {
	return func(o *sinkOptions) {
		o.threadSafe = enabled
	}
}

// WithForceFlush makes the sink flush its destination after every write.
func WithForceFlush(enabled bool) SinkOption {
	return func(o *sinkOptions) {
		o.forceFlush = enabled
	}
}

// WithTruncate makes a file sink truncate its destination at construction instead of
// appending to it.
func WithTruncate(enabled bool) SinkOption {
	return func(o *sinkOptions) {
		o.truncate = enabled
	}
}

// WithFileMode sets the permission bits used when a file sink creates its destination.
func WithFileMode(mode os.FileMode) SinkOption {
	return func(o *sinkOptions) {
		o.fileMode = mode
	}
}

// WithSinkDiagnostics routes the sink's failure notices to w instead of the package-wide
// diagnostic channel.
func WithSinkDiagnostics(w io.Writer) SinkOption {
	return func(o *sinkOptions) {
		o.diag = w
	}
}

// sinkCore carries what every sink shares: the threshold, the lock strategy and the
// degraded state.
type sinkCore struct {
	level    atomic.Uint32
	mu       locker
	diag     *diagnostics
	failOnce sync.Once
	degraded atomic.Bool
	err      error
}

func (c *sinkCore) init(o sinkOptions) {
	c.level.Store(uint32(o.level))
	if o.threadSafe {
		c.mu = &sync.Mutex{}
	} else {
		c.mu = nopLocker{}
	}
	c.diag = newDiagnostics(o.diag)
}

// SetLevel changes the sink's minimum severity.
func (c *sinkCore) SetLevel(level Severity) {
	c.level.Store(uint32(level))
}

// Level returns the sink's minimum severity.
func (c *sinkCore) Level() Severity {
	return Severity(c.level.Load())
}

// Enabled reports whether a record at level passes the sink's threshold.
func (c *sinkCore) Enabled(level Severity) bool {
	return ShouldLog(level, c.Level())
}

// Degraded reports whether the sink has failed and now skips writes.
func (c *sinkCore) Degraded() bool {
	return c.degraded.Load()
}

// Err returns the failure that degraded the sink, or nil.
func (c *sinkCore) Err() error {
	if !c.degraded.Load() {
		return nil
	}
	return c.err
}

// degrade records the first failure, reports it once and switches the sink into its
// degraded state. Later failures are ignored.
func (c *sinkCore) degrade(component string, err error) {
	c.failOnce.Do(func() {
		c.err = err
		c.degraded.Store(true)
		c.diag.report(component, err)
	})
}
