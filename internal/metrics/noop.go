package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncParseValid is a no-op.
func (n *NoopRecorder) IncParseValid() {}

// IncParseInvalid is a no-op.
func (n *NoopRecorder) IncParseInvalid() {}

// IncDispatchResult is a no-op.
func (n *NoopRecorder) IncDispatchResult(status string) {}

// ObserveDispatchDuration is a no-op.
func (n *NoopRecorder) ObserveDispatchDuration(duration time.Duration) {}

// IncPrefetchHit is a no-op.
func (n *NoopRecorder) IncPrefetchHit() {}

// IncPrefetchMiss is a no-op.
func (n *NoopRecorder) IncPrefetchMiss() {}

// ObservePrefetchDuration is a no-op.
func (n *NoopRecorder) ObservePrefetchDuration(duration time.Duration) {}

// IncEventRecorded is a no-op.
func (n *NoopRecorder) IncEventRecorded(kind string) {}

// SetEventBufferLen is a no-op.
func (n *NoopRecorder) SetEventBufferLen(length int64) {}
