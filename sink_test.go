package fanlog

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkLevel(t *testing.T) {
	sink := NewMemorySink()
	assert.Equal(t, DefaultSinkLevel, sink.Level())
	assert.True(t, sink.Enabled(TraceIssuer))
	assert.False(t, sink.Enabled(NoneIssuer))

	sink.SetLevel(ErrorIssuer)
	assert.False(t, sink.Enabled(WarningIssuer))
	assert.True(t, sink.Enabled(ErrorIssuer))
	assert.True(t, sink.Enabled(FatalIssuer))
}

// TestWriterSinkForceFlush uses a bufio.Writer to observe when the sink flushes.
func TestWriterSinkForceFlush(t *testing.T) {
	t.Run("buffered until flush", func(t *testing.T) {
		dst := new(bytes.Buffer)
		sink := NewWriterSink(bufio.NewWriter(dst))
		require.NoError(t, sink.Write("one\n"))
		assert.Zero(t, dst.Len())
		require.NoError(t, sink.Flush())
		assert.Equal(t, "one\n", dst.String())
	})

	t.Run("flushed after every write", func(t *testing.T) {
		dst := new(bytes.Buffer)
		sink := NewWriterSink(bufio.NewWriter(dst), WithForceFlush(true))
		require.NoError(t, sink.Write("one\n"))
		assert.Equal(t, "one\n", dst.String())
	})
}

func TestWriterSinkSingleThreaded(t *testing.T) {
	dst := new(bytes.Buffer)
	sink := NewWriterSink(dst, WithThreadSafe(false))
	_, isNop := sink.mu.(nopLocker)
	assert.True(t, isNop)
	require.NoError(t, sink.Write("a"))
	require.NoError(t, sink.Write("b"))
	assert.Equal(t, "ab", dst.String())
}

func TestWriterSinkNilWriter(t *testing.T) {
	diag := new(bytes.Buffer)
	sink := NewWriterSink(nil, WithSinkDiagnostics(diag))
	assert.True(t, sink.Degraded())
	assert.ErrorIs(t, sink.Write("x"), ErrSinkDegraded)
	assert.ErrorIs(t, sink.Flush(), ErrSinkDegraded)
	assert.Contains(t, diag.String(), "fanlog: writer sink: nil writer")
}

func TestWriterSinkWriteFailure(t *testing.T) {
	diag := new(bytes.Buffer)
	fw := &failingWriter{}
	sink := NewWriterSink(fw, WithSinkDiagnostics(diag))

	err := sink.Write("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.True(t, sink.Degraded())
	assert.Contains(t, sink.Err().Error(), "write: disk full")

	assert.ErrorIs(t, sink.Write("y"), ErrSinkDegraded)
	assert.ErrorIs(t, sink.Write("z"), ErrSinkDegraded)
	assert.EqualValues(t, 1, fw.calls.Load())
	assert.Equal(t, 1, strings.Count(diag.String(), "\n"), diag.String())
}

func TestWriterSinkHealthyHasNoErr(t *testing.T) {
	sink := NewWriterSink(io.Discard)
	assert.False(t, sink.Degraded())
	assert.NoError(t, sink.Err())
	assert.NoError(t, sink.Flush())
}

func TestFileSinkAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	sink := NewFileSink(path)
	t.Cleanup(func() { _ = sink.Close() })
	require.False(t, sink.Degraded())
	assert.Equal(t, path, sink.Path())
	require.NoError(t, sink.Write("appended\n"))
	require.NoError(t, sink.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nappended\n", string(data))
}

func TestFileSinkTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o644))

	sink := NewFileSink(path, WithTruncate(true), WithForceFlush(true))
	t.Cleanup(func() { _ = sink.Close() })
	require.NoError(t, sink.Write("fresh\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(data))
}

func TestFileSinkCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "app.log")
	sink := NewFileSink(path)
	t.Cleanup(func() { _ = sink.Close() })
	require.False(t, sink.Degraded(), "%v", sink.Err())
	require.NoError(t, sink.Write("x\n"))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

// TestFileSinkFlushKeepsFileOpen pins the flush semantics: Flush can be repeated and
// writes after it still land; only Close ends the sink.
func TestFileSinkFlushKeepsFileOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	sink := NewFileSink(path)

	require.NoError(t, sink.Write("one\n"))
	require.NoError(t, sink.Flush())
	require.NoError(t, sink.Flush())
	require.NoError(t, sink.Write("two\n"))

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())
	assert.ErrorIs(t, sink.Write("three\n"), ErrSinkClosed)
	assert.ErrorIs(t, sink.Flush(), ErrSinkClosed)
	assert.False(t, sink.Degraded(), "closing is not a failure")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

// TestFileSinkOpenFailure points the sink below a regular file, so the directory
// cannot be created.
func TestFileSinkOpenFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	diag := new(bytes.Buffer)
	var sink *FileSink
	require.NotPanics(t, func() {
		sink = NewFileSink(filepath.Join(blocker, "sub", "app.log"), WithSinkDiagnostics(diag))
	})
	require.True(t, sink.Degraded())
	require.Error(t, sink.Err())
	assert.ErrorIs(t, sink.Write("x\n"), ErrSinkDegraded)
	assert.ErrorIs(t, sink.Write("y\n"), ErrSinkDegraded)
	assert.ErrorIs(t, sink.Flush(), ErrSinkDegraded)
	assert.NoError(t, sink.Close())

	assert.Equal(t, 1, strings.Count(diag.String(), "fanlog: file sink:"), diag.String())
}

func TestFileSinkEmptyPath(t *testing.T) {
	sink := NewFileSink("", WithSinkDiagnostics(io.Discard))
	assert.True(t, sink.Degraded())
}

func TestFileSinkThroughLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.log")
	sink := NewFileSink(path, WithSinkLevel(WarningIssuer))
	t.Cleanup(func() { _ = sink.Close() })
	logger := newTestLogger("svc", WithLevel(InfoIssuer), WithSinks(sink), WithColor(false))

	logger.Info("not for the file")
	logger.Warning("for the file")
	require.NoError(t, logger.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2024-01-02 03:04:05 UTC] (svc) Warning: for the file\n", string(data))
}

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	require.NoError(t, sink.Write("a"))
	require.NoError(t, sink.Write("b"))

	records := sink.Records()
	records[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, sink.Records(), "Records returns a copy")
	assert.NoError(t, sink.Flush())

	sink.Reset()
	assert.Zero(t, sink.Len())
}

func TestNopSink(t *testing.T) {
	var s Sink = NopSink{}
	s.SetLevel(NoneIssuer)
	assert.False(t, s.Enabled(FatalIssuer))
	assert.NoError(t, s.Write("x"))
	assert.NoError(t, s.Flush())
}

func TestDiagnosticOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	SetDiagnosticOutput(buf)
	t.Cleanup(func() { SetDiagnosticOutput(os.Stderr) })

	NewWriterSink(nil)
	assert.Equal(t, "fanlog: writer sink: nil writer\n", buf.String())

	SetDiagnosticOutput(nil)
	NewWriterSink(nil)
	assert.Equal(t, "fanlog: writer sink: nil writer\n", buf.String())
}
