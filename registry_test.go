package fanlog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	svc := newTestLogger("svc")
	r.Register(svc)

	got, ok := r.Get("svc")
	require.True(t, ok)
	assert.Same(t, svc, got)

	got, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

// TestRegistryOverwrite registers two loggers under one name; only the second is
// reachable, the first keeps working through the reference held before.
func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry()
	firstSink, secondSink := NewMemorySink(), NewMemorySink()
	first := newTestLogger("svc", WithSinks(firstSink))
	second := newTestLogger("svc", WithSinks(secondSink))

	r.Register(first)
	r.Register(second)

	got, ok := r.Get("svc")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Len())

	first.Error("still usable")
	assert.Equal(t, 1, firstSink.Len())
	assert.Zero(t, secondSink.Len())
	assert.Len(t, first.Sinks(), 1, "overwriting does not touch attached sinks")
}

func TestRegistryDefaultElection(t *testing.T) {
	r := NewRegistry()
	first := newTestLogger("first")
	second := newTestLogger("second")

	r.Register(first)
	assert.Same(t, first, r.Default())
	r.Register(second)
	assert.Same(t, first, r.Default(), "later registrations do not change the default")

	r.SetDefault(second)
	assert.Same(t, second, r.Default())

	outsider := newTestLogger("outsider")
	r.SetDefault(outsider)
	assert.Same(t, outsider, r.Default())
	_, ok := r.Get("outsider")
	assert.False(t, ok, "SetDefault does not register")
}

func TestRegistrySetDefaultNil(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestLogger("first"))
	r.SetDefault(nil)

	next := newTestLogger("next")
	r.Register(next)
	assert.Same(t, next, r.Default())
}

// TestRegistryFabricatedDefault covers a registry where nothing was ever registered.
func TestRegistryFabricatedDefault(t *testing.T) {
	r := NewRegistry()

	var a, b *Logger
	require.NotPanics(t, func() {
		a = r.Default()
		b = r.Default()
	})
	require.NotNil(t, a)
	assert.Equal(t, DefaultLoggerName, a.Name())
	assert.Empty(t, a.Sinks())
	assert.Same(t, a, b, "the fabricated logger keeps its identity")
	assert.Zero(t, r.Len(), "the fabricated logger is not registered")
	_, ok := r.Get(DefaultLoggerName)
	assert.False(t, ok)

	require.NotPanics(t, func() { a.Fatal("nobody listens") })

	sink := NewMemorySink()
	a.AddSink(sink)
	a.SetLevel(InfoIssuer)
	r.Default().Info("kept")
	assert.Equal(t, 1, sink.Len(), "sinks added to the fabricated logger persist")

	registered := newTestLogger("registered")
	r.Register(registered)
	assert.Same(t, registered, r.Default(), "registration elects a real default")
}

// TestRegistryFabricatedDefaultSurvivesReset pins the cached fabricated logger: it is not
// rebuilt per call, so a sink attached to it is still there once the slot is cleared again.
func TestRegistryFabricatedDefaultSurvivesReset(t *testing.T) {
	r := NewRegistry()
	fabricated := r.Default()
	sink := NewMemorySink()
	fabricated.AddSink(sink)

	r.Register(newTestLogger("svc"))
	require.Equal(t, "svc", r.Default().Name())
	r.SetDefault(nil)

	again := r.Default()
	assert.Same(t, fabricated, again, "no throwaway logger per call")
	require.Len(t, again.Sinks(), 1)
	again.Fatal("still wired")
	assert.Equal(t, 1, sink.Len())
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	a, b := newTestLogger("a"), newTestLogger("b")
	r.Register(a)
	r.Register(b)

	assert.True(t, r.Unregister("a"))
	assert.False(t, r.Unregister("a"))
	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.Equal(t, DefaultLoggerName, r.Default().Name(), "default slot cleared with its logger")

	r.Register(newTestLogger("c"))
	assert.Equal(t, "c", r.Default().Name())
	assert.Equal(t, []string{"b", "c"}, r.Names())
}

func TestRegistryIgnoresNil(t *testing.T) {
	r := NewRegistry()
	r.Register(nil)
	assert.Zero(t, r.Len())
}

func TestRegistryFlush(t *testing.T) {
	r := NewRegistry()
	r.Register(newTestLogger("ok", WithSinks(NewMemorySink())))
	require.NoError(t, r.Flush())

	r.Register(newTestLogger("bad", WithSinks(flakySink{NewMemorySink()})))
	require.Error(t, r.Flush())
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry()
	sink := NewMemorySink()

	var wg conc.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Go(func() {
			for i := 0; i < 100; i++ {
				name := fmt.Sprintf("logger-%d", i%10)
				r.Register(newTestLogger(name, WithSinks(sink)))
				if l, ok := r.Get(name); ok {
					l.Error("hit")
				}
				r.Default().Error("default")
				_ = r.Names()
			}
		})
	}
	wg.Wait()

	assert.Equal(t, 10, r.Len())
	assert.Equal(t, 8*100*2, sink.Len())
}

func TestRegistryFactories(t *testing.T) {
	r := NewRegistry()

	stdout := r.StdoutLogger("console", WithSinkLevel(WarningIssuer))
	got, ok := r.Get("console")
	require.True(t, ok)
	assert.Same(t, stdout, got)
	assert.Same(t, stdout, r.Default())
	require.Len(t, stdout.Sinks(), 1)
	ws, ok := stdout.Sinks()[0].(*WriterSink)
	require.True(t, ok)
	assert.Equal(t, WarningIssuer, ws.Level())
	assert.Equal(t, DefaultLoggerLevel, stdout.Level())

	path := filepath.Join(t.TempDir(), "file.log")
	file := r.FileLogger("file", path, WithTruncate(true))
	fs, ok := file.Sinks()[0].(*FileSink)
	require.True(t, ok)
	t.Cleanup(func() { _ = fs.Close() })
	file.Error("to disk")
	require.NoError(t, file.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(file) ")
	assert.Contains(t, string(data), ": to disk\n")
	assert.Equal(t, []string{"console", "file"}, r.Names())
}

// TestGlobalHelpers swaps the process-wide registry for an isolated one.
func TestGlobalHelpers(t *testing.T) {
	prev := Global()
	r := NewRegistry()
	SetGlobal(r)
	t.Cleanup(func() { SetGlobal(prev) })
	require.Same(t, r, Global())

	SetGlobal(nil)
	require.Same(t, r, Global(), "nil is ignored")

	sink := NewMemorySink()
	r.Register(newTestLogger("main", WithLevel(NoneIssuer), WithSinks(sink), WithColor(false)))

	Trace("t")
	Tracef("%s", "t")
	Debug("d")
	Debugf("%s", "d")
	Info("Hello world!")
	Infof("%s", "i")
	Warning("w")
	Warningf("%s", "w")
	Error("e")
	Errorf("%s", "e")
	Fatal("f")
	Fatalf("%s", "f")
	func() {
		b := Stream(InfoIssuer)
		defer b.Close()
		b.Append("streamed ", 3)
	}()

	records := sink.Records()
	require.Len(t, records, 13)
	assert.Contains(t, records[4], "(main) Info: Hello world!\n")
	assert.Contains(t, records[12], "Info: streamed 3\n")
}

func TestGlobalLazyInit(t *testing.T) {
	prev := Global()
	t.Cleanup(func() { SetGlobal(prev) })
	globalMu.Lock()
	globalRegistry = nil
	globalMu.Unlock()

	got := make([]*Registry, 16)
	var wg conc.WaitGroup
	for i := range got {
		i := i
		wg.Go(func() { got[i] = Global() })
	}
	wg.Wait()

	require.NotNil(t, got[0])
	assert.NotSame(t, prev, got[0], "a fresh registry is built once the slot is empty")
	for _, r := range got {
		assert.Same(t, got[0], r)
	}
}
