package fanlog

import (
	"io"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// WriterSink writes rendered records to an already-open stream it does not own, such as
// os.Stdout or a *bufio.Writer.
type WriterSink struct {
	sinkCore
	w          io.Writer
	forceFlush bool
}

// NewWriterSink wraps w. A nil writer produces a degraded sink.
func NewWriterSink(w io.Writer, opts ...SinkOption) *WriterSink {
	o := collectSinkOptions(opts)
	s := &WriterSink{w: w, forceFlush: o.forceFlush}
	s.init(o)
	if w == nil {
		s.degrade("writer sink", errors.New("nil writer"))
	}
	return s
}

// NewStdoutSink is NewWriterSink(os.Stdout, opts...).
func NewStdoutSink(opts ...SinkOption) *WriterSink {
	return NewWriterSink(os.Stdout, opts...)
}

// NewStderrSink is NewWriterSink(os.Stderr, opts...).
func NewStderrSink(opts ...SinkOption) *WriterSink {
	return NewWriterSink(os.Stderr, opts...)
}

// Write appends record to the stream, flushing afterwards in force-flush mode. The first
// failed write degrades the sink.
func (s *WriterSink) Write(record string) error {
	if s.Degraded() {
		return ErrSinkDegraded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, record); err != nil {
		s.degrade("writer sink", errors.Wrap(err, "write"))
		return err
	}
	if s.forceFlush {
		if err := flushWriter(s.w); err != nil {
			s.degrade("writer sink", errors.Wrap(err, "flush"))
			return err
		}
	}
	return nil
}

// Flush forwards to the stream's Flush or Sync method when it has one.
func (s *WriterSink) Flush() error {
	if s.Degraded() {
		return ErrSinkDegraded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := flushWriter(s.w); err != nil {
		s.degrade("writer sink", errors.Wrap(err, "flush"))
		return err
	}
	return nil
}

// flushWriter flushes buffered writers and syncs files. Terminals and pipes reject
// fsync with EINVAL, which is not a failure for a stream.
func flushWriter(w io.Writer) error {
	switch f := w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case interface{ Sync() error }:
		if err := f.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) {
			return err
		}
	}
	return nil
}
