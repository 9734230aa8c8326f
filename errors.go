package fanlog

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrSinkDegraded is returned by writes to a sink that has failed before. The
	// original failure is available from the sink's Err method.
	ErrSinkDegraded = errors.New("fanlog: sink degraded")

	// ErrSinkClosed is returned by writes to a file sink after Close.
	ErrSinkClosed = errors.New("fanlog: sink closed")

	// ErrLineClosed is returned by writes to a LineBuilder after Close.
	ErrLineClosed = errors.New("fanlog: line already submitted")

	// ErrNilSink is reported when a nil sink is attached to a logger.
	ErrNilSink = errors.New("fanlog: nil sink")
)

// joinErrors combines flush errors; it returns nil when errs is empty.
func joinErrors(errs []error) error {
	return stderrors.Join(errs...)
}
