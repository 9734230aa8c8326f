package fanlog

import "sync"

var (
	globalMu       sync.RWMutex
	globalRegistry *Registry
)

// Global returns the process-wide registry, creating it on first use.
func Global() *Registry {
	globalMu.RLock()
	r := globalRegistry
	globalMu.RUnlock()
	if r != nil {
		return r
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalRegistry == nil {
		globalRegistry = NewRegistry()
	}
	return globalRegistry
}

// SetGlobal replaces the process-wide registry. A nil registry is ignored.
func SetGlobal(r *Registry) {
	if r == nil {
		return
	}
	globalMu.Lock()
	globalRegistry = r
	globalMu.Unlock()
}

// Trace logs a trace-level message on the default logger of the global registry.
func Trace(msg ...interface{}) { Global().Default().Log(TraceIssuer, msg...) }

// Tracef logs a formatted trace-level message on the global default logger.
func Tracef(format string, args ...interface{}) {
	Global().Default().Logf(TraceIssuer, format, args...)
}

// Debug logs a debug-level message on the global default logger.
func Debug(msg ...interface{}) { Global().Default().Log(DebugIssuer, msg...) }

// Debugf logs a formatted debug-level message on the global default logger.
func Debugf(format string, args ...interface{}) {
	Global().Default().Logf(DebugIssuer, format, args...)
}

// Info logs an informational message on the global default logger.
func Info(msg ...interface{}) { Global().Default().Log(InfoIssuer, msg...) }

// Infof logs a formatted informational message on the global default logger.
func Infof(format string, args ...interface{}) {
	Global().Default().Logf(InfoIssuer, format, args...)
}

// Warning logs a warning message on the global default logger.
func Warning(msg ...interface{}) { Global().Default().Log(WarningIssuer, msg...) }

// Warningf logs a formatted warning message on the global default logger.
func Warningf(format string, args ...interface{}) {
	Global().Default().Logf(WarningIssuer, format, args...)
}

// Error logs an error message on the global default logger.
func Error(msg ...interface{}) { Global().Default().Log(ErrorIssuer, msg...) }

// Errorf logs a formatted error message on the global default logger.
func Errorf(format string, args ...interface{}) {
	Global().Default().Logf(ErrorIssuer, format, args...)
}

// Fatal logs a fatal message on the global default logger. It returns normally.
func Fatal(msg ...interface{}) { Global().Default().Log(FatalIssuer, msg...) }

// Fatalf logs a formatted fatal message on the global default logger. It returns normally.
func Fatalf(format string, args ...interface{}) {
	Global().Default().Logf(FatalIssuer, format, args...)
}

// Stream returns a LineBuilder bound to the global default logger.
func Stream(level Severity) *LineBuilder {
	return Global().Default().Stream(level)
}
