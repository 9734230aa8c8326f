package fanlog

import (
	"sort"
	"sync"
)

// Registry maps logger names to loggers and keeps one default logger. Each Registry is
// independent; Global returns the process-wide one.
type Registry struct {
	mu            sync.RWMutex
	loggers       map[string]*Logger
	defaultLogger *Logger
	fallback      *Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		loggers: make(map[string]*Logger),
	}
}

// Register stores l under its name, replacing any logger registered with the same name.
// If the registry has no default logger yet, l becomes the default.
func (r *Registry) Register(l *Logger) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggers[l.Name()] = l
	if r.defaultLogger == nil {
		r.defaultLogger = l
	}
}

// Unregister removes the logger registered under name and reports whether there was
// one. If it was the default, the default slot is cleared.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loggers[name]
	if !ok {
		return false
	}
	delete(r.loggers, name)
	if r.defaultLogger == l {
		r.defaultLogger = nil
	}
	return true
}

// Get returns the logger registered under name.
func (r *Registry) Get(name string) (*Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loggers[name]
	return l, ok
}

// SetDefault makes l the default logger, whether or not it is registered. A nil logger
// clears the slot, so the next Register elects a new default.
func (r *Registry) SetDefault(l *Logger) {
	r.mu.Lock()
	r.defaultLogger = l
	r.mu.Unlock()
}

// Default returns the default logger. A registry without one hands out a sink-less
// logger named "default"; it is created once and the same instance is returned until a
// default is elected, but it is never registered.
func (r *Registry) Default() *Logger {
	r.mu.RLock()
	l := r.defaultLogger
	r.mu.RUnlock()
	if l != nil {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultLogger != nil {
		return r.defaultLogger
	}
	if r.fallback == nil {
		r.fallback = New(DefaultLoggerName)
	}
	return r.fallback
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered loggers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.loggers)
}

// Flush flushes every registered logger. The registry lock is released before any
// logger is touched.
func (r *Registry) Flush() error {
	r.mu.RLock()
	loggers := make([]*Logger, 0, len(r.loggers))
	for _, l := range r.loggers {
		loggers = append(loggers, l)
	}
	r.mu.RUnlock()

	var errs []error
	for _, l := range loggers {
		if err := l.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors(errs)
}
