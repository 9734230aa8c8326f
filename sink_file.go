package fanlog

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileSink owns a file opened at construction, in append mode unless WithTruncate is
// given. Flush syncs the file and keeps it open; Close releases it for good.
type FileSink struct {
	sinkCore
	path       string
	file       *os.File
	forceFlush bool
	closed     bool
}

// NewFileSink opens path, creating missing parent directories. If the destination cannot
// be opened the failure is reported once on the diagnostic channel and the returned sink
// is degraded: every write is skipped and returns ErrSinkDegraded.
func NewFileSink(path string, opts ...SinkOption) *FileSink {
	o := collectSinkOptions(opts)
	s := &FileSink{path: path, forceFlush: o.forceFlush}
	s.init(o)

	flags := os.O_CREATE | os.O_WRONLY
	if o.truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	if dir := filepath.Dir(path); path != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.degrade("file sink", errors.Wrapf(err, "create directory for %q", path))
			return s
		}
	}
	f, err := os.OpenFile(path, flags, o.fileMode)
	if err != nil {
		s.degrade("file sink", errors.Wrapf(err, "open %q", path))
		return s
	}
	s.file = f
	return s
}

// Path returns the destination path given at construction.
func (s *FileSink) Path() string {
	return s.path
}

// Write appends record to the file.
func (s *FileSink) Write(record string) error {
	if s.Degraded() {
		return ErrSinkDegraded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	if _, err := s.file.WriteString(record); err != nil {
		s.degrade("file sink", errors.Wrapf(err, "write %q", s.path))
		return err
	}
	if s.forceFlush {
		if err := s.file.Sync(); err != nil {
			s.degrade("file sink", errors.Wrapf(err, "sync %q", s.path))
			return err
		}
	}
	return nil
}

// Flush commits written records to stable storage. It can be called any number of
// times; the file stays open.
func (s *FileSink) Flush() error {
	if s.Degraded() {
		return ErrSinkDegraded
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	if err := s.file.Sync(); err != nil {
		s.degrade("file sink", errors.Wrapf(err, "sync %q", s.path))
		return err
	}
	return nil
}

// Close releases the file. Writes and flushes after Close return ErrSinkClosed.
// Closing twice is a no-op.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return errors.Wrapf(err, "close %q", s.path)
}
