package fanlog

import (
	"io"
	"os"
	"sync"
)

// diagOutput is the package-wide diagnostic channel. It is kept apart from every sink so
// that a failing sink never logs into itself.
var diagOutput = struct {
	sync.Mutex
	w io.Writer
}{w: os.Stderr}

// SetDiagnosticOutput redirects the library's own failure notices. A nil writer
// discards them.
func SetDiagnosticOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	diagOutput.Lock()
	diagOutput.w = w
	diagOutput.Unlock()
}

// diagnostics writes one-line notices like "fanlog: file sink: open /x: permission denied".
// A nil *diagnostics or one without a writer falls back to the package-wide channel.
type diagnostics struct {
	w io.Writer
}

func newDiagnostics(w io.Writer) *diagnostics {
	return &diagnostics{w: w}
}

func (d *diagnostics) report(component string, err error) {
	if err == nil {
		return
	}
	line := "fanlog: " + component + ": " + err.Error() + "\n"

	diagOutput.Lock()
	defer diagOutput.Unlock()
	w := diagOutput.w
	if d != nil && d.w != nil {
		w = d.w
	}
	_, _ = io.WriteString(w, line)
}
