package fanlog

import (
	"fmt"
	"strings"
)

// LineBuilder accumulates the text of one record and submits it to its logger when
// closed. It belongs to a single goroutine.
//
// Example:
//
//	b := logger.Stream(InfoIssuer)
//	defer b.Close()
//	b.Append("x=", x, ", ok")
type LineBuilder struct {
	logger *Logger
	level  Severity
	buf    strings.Builder
	closed bool
}

// Append renders each value with fmt.Fprint and concatenates the results, without
// separators, in call order.
func (b *LineBuilder) Append(values ...interface{}) *LineBuilder {
	if b.closed {
		return b
	}
	for _, v := range values {
		if s, ok := v.(string); ok {
			b.buf.WriteString(s)
			continue
		}
		fmt.Fprint(&b.buf, v)
	}
	return b
}

// Appendf appends a fmt.Sprintf formatted piece.
func (b *LineBuilder) Appendf(format string, args ...interface{}) *LineBuilder {
	if b.closed {
		return b
	}
	fmt.Fprintf(&b.buf, format, args...)
	return b
}

// Write implements io.Writer so the builder can be the target of fmt.Fprintf.
func (b *LineBuilder) Write(p []byte) (int, error) {
	if b.closed {
		return 0, ErrLineClosed
	}
	return b.buf.Write(p)
}

// WriteString implements io.StringWriter.
func (b *LineBuilder) WriteString(s string) (int, error) {
	if b.closed {
		return 0, ErrLineClosed
	}
	return b.buf.WriteString(s)
}

// Level returns the severity the record will be logged at.
func (b *LineBuilder) Level() Severity {
	return b.level
}

// String returns the text accumulated so far.
func (b *LineBuilder) String() string {
	return b.buf.String()
}

// Len returns the number of accumulated bytes.
func (b *LineBuilder) Len() int {
	return b.buf.Len()
}

// Close submits the accumulated text as a single record. Only the first call logs;
// the buffer is discarded afterwards.
func (b *LineBuilder) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	msg := b.buf.String()
	b.buf.Reset()
	if b.logger != nil {
		b.logger.Log(b.level, msg)
	}
	return nil
}
