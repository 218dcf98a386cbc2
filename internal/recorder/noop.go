package recorder

// NoopRecorder discards everything; used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(*RunSummary) error { return nil }
func (n *NoopRecorder) Close() error                { return nil }
