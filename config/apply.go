package config

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/sivaosorg/fanlog"
)

// ApplyOption adjusts how a Config is turned into sinks and loggers.
type ApplyOption func(*applyOptions)

type applyOptions struct {
	stdout      io.Writer
	stderr      io.Writer
	diagnostics io.Writer
	loggerOpts  []fanlog.Option
}

// WithStdout replaces os.Stdout as the destination of "stdout" sinks.
func WithStdout(w io.Writer) ApplyOption {
	return func(o *applyOptions) { o.stdout = w }
}

// WithStderr replaces os.Stderr as the destination of "stderr" sinks.
func WithStderr(w io.Writer) ApplyOption {
	return func(o *applyOptions) { o.stderr = w }
}

// WithDiagnostics routes failure notices of the built sinks and loggers to w.
func WithDiagnostics(w io.Writer) ApplyOption {
	return func(o *applyOptions) { o.diagnostics = w }
}

// WithLoggerOptions adds options to every logger built, before the per-logger settings.
func WithLoggerOptions(opts ...fanlog.Option) ApplyOption {
	return func(o *applyOptions) { o.loggerOpts = append(o.loggerOpts, opts...) }
}

// Applied holds what Apply built.
type Applied struct {
	Sinks   map[string]fanlog.Sink
	Loggers []*fanlog.Logger
}

// Memory returns the memory sink declared under name.
func (a *Applied) Memory(name string) (*fanlog.MemorySink, bool) {
	s, ok := a.Sinks[name].(*fanlog.MemorySink)
	return s, ok
}

// Close flushes the registered loggers' sinks and releases the sinks that own a resource.
func (a *Applied) Close() error {
	var first error
	for _, l := range a.Loggers {
		if err := l.Flush(); err != nil && first == nil {
			first = err
		}
	}
	for _, s := range a.Sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// Apply builds every sink once, builds every logger on top of them, registers the
// loggers in r in declaration order and sets the default logger if one is marked.
func (c *Config) Apply(r *fanlog.Registry, opts ...ApplyOption) (*Applied, error) {
	if r == nil {
		return nil, errors.New("config: nil registry")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	applied := &Applied{
		Sinks:   make(map[string]fanlog.Sink, len(c.Sinks)),
		Loggers: make([]*fanlog.Logger, 0, len(c.Loggers)),
	}
	for _, name := range c.sinkNames() {
		applied.Sinks[name] = buildSink(c.Sinks[name], o)
	}

	for _, lc := range c.Loggers {
		sinks := make([]fanlog.Sink, 0, len(lc.Sinks))
		for _, ref := range lc.Sinks {
			sinks = append(sinks, applied.Sinks[ref])
		}
		loggerOpts := make([]fanlog.Option, 0, len(o.loggerOpts)+6)
		loggerOpts = append(loggerOpts, o.loggerOpts...)
		loggerOpts = append(loggerOpts, fanlog.WithSinks(sinks...), fanlog.WithUTC(lc.UTC), fanlog.WithTimeFormat(lc.TimeFormat))
		if lc.Level != nil {
			loggerOpts = append(loggerOpts, fanlog.WithLevel(*lc.Level))
		}
		if lc.Color != nil {
			loggerOpts = append(loggerOpts, fanlog.WithColor(*lc.Color))
		}
		if o.diagnostics != nil {
			loggerOpts = append(loggerOpts, fanlog.WithDiagnostics(o.diagnostics))
		}

		l := fanlog.New(lc.Name, loggerOpts...)
		r.Register(l)
		if lc.Default {
			r.SetDefault(l)
		}
		applied.Loggers = append(applied.Loggers, l)
	}
	return applied, nil
}

func buildSink(sc SinkConfig, o applyOptions) fanlog.Sink {
	opts := []fanlog.SinkOption{fanlog.WithForceFlush(sc.ForceFlush), fanlog.WithTruncate(sc.Truncate)}
	if sc.Level != nil {
		opts = append(opts, fanlog.WithSinkLevel(*sc.Level))
	}
	if sc.ThreadSafe != nil {
		opts = append(opts, fanlog.WithThreadSafe(*sc.ThreadSafe))
	}
	if o.diagnostics != nil {
		opts = append(opts, fanlog.WithSinkDiagnostics(o.diagnostics))
	}
	switch sc.Type {
	case SinkStdout:
		return fanlog.NewWriterSink(o.stdout, opts...)
	case SinkStderr:
		return fanlog.NewWriterSink(o.stderr, opts...)
	case SinkFile:
		return fanlog.NewFileSink(sc.Path, opts...)
	case SinkMemory:
		return fanlog.NewMemorySink(opts...)
	default:
		return fanlog.NopSink{}
	}
}
