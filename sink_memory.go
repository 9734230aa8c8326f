package fanlog

// MemorySink keeps rendered records in memory, in write order.
type MemorySink struct {
	sinkCore
	records []string
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink(opts ...SinkOption) *MemorySink {
	s := &MemorySink{records: make([]string, 0, 64)}
	s.init(collectSinkOptions(opts))
	return s
}

// Write stores record.
func (s *MemorySink) Write(record string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Flush is a no-op.
func (s *MemorySink) Flush() error { return nil }

// Records returns a copy of the stored records.
func (s *MemorySink) Records() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Reset drops every stored record.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	s.records = s.records[:0]
	s.mu.Unlock()
}

// NopSink discards every record and reports all levels as disabled.
type NopSink struct{}

func (NopSink) Write(string) error    { return nil }
func (NopSink) Flush() error          { return nil }
func (NopSink) SetLevel(Severity)     {}
func (NopSink) Enabled(Severity) bool { return false }
