package recorder

// NoopRecorder satisfies Recorder without persisting anything. Used when no
// database path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSignal(*SignalRecord) error     { return nil }
func (n *NoopRecorder) RecordProfile(*ProfileSnapshot) error { return nil }
func (n *NoopRecorder) RecordPair(*PairSnapshot) error       { return nil }
func (n *NoopRecorder) Close() error                         { return nil }
