package fanlog

// StdoutLogger builds a logger named name writing to os.Stdout through a new WriterSink
// configured by opts, registers it and returns it. The logger keeps the default
// threshold; change it with SetLevel.
func (r *Registry) StdoutLogger(name string, opts ...SinkOption) *Logger {
	return r.register(New(name, WithSinks(NewStdoutSink(opts...))))
}

// FileLogger builds a logger named name writing to path through a new FileSink
// configured by opts, registers it and returns it. A path that cannot be opened leaves
// the logger usable with a degraded sink.
func (r *Registry) FileLogger(name, path string, opts ...SinkOption) *Logger {
	return r.register(New(name, WithSinks(NewFileSink(path, opts...))))
}

func (r *Registry) register(l *Logger) *Logger {
	r.Register(l)
	return l
}
