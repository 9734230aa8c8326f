package fanlog

import "github.com/fatih/color"

// Predefined severity levels, declared in rank order. A record passes a threshold
// when its severity ranks at or above it.
const (
	// NoneIssuer is the lowest rank. As a threshold it lets every record through.
	NoneIssuer Severity = iota

	// TraceIssuer represents fine-grained tracing of execution paths
	TraceIssuer

	// DebugIssuer represents debug-level messages for development diagnostics
	DebugIssuer

	// InfoIssuer indicates normal operational messages for tracking progress
	InfoIssuer

	// WarningIssuer signifies potential issues that don't disrupt core functionality
	WarningIssuer

	// ErrorIssuer denotes failures in specific operations or components
	ErrorIssuer

	// FatalIssuer represents critical errors the application may not recover from
	FatalIssuer
)

const (
	// DefaultLoggerLevel is the threshold of a Logger created without WithLevel.
	DefaultLoggerLevel = ErrorIssuer

	// DefaultSinkLevel is the threshold of a Sink created without WithSinkLevel.
	DefaultSinkLevel = TraceIssuer

	// DefaultTimeFormat renders as "YYYY-MM-DD HH:MM:SS TZ".
	DefaultTimeFormat = "2006-01-02 15:04:05 MST"

	// DefaultLoggerName names the logger fabricated by a Registry that has no default.
	DefaultLoggerName = "default"

	resetColor = "\x1b[0m"
)

var severityNames = [...]string{"None", "Trace", "Debug", "Info", "Warning", "Error", "Fatal"}

var severityPalette = [...]color.Attribute{
	color.Reset,
	color.FgBlue,
	color.FgMagenta,
	color.FgWhite,
	color.FgYellow,
	color.FgRed,
	color.FgHiCyan,
}
