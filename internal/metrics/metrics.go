// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Parse metrics
	IncParseValid()
	IncParseInvalid()

	// Dispatch metrics
	IncDispatchResult(status string) // status: "handled", "failed", "unknown_handler"
	ObserveDispatchDuration(duration time.Duration)

	// Prefetch metrics
	IncPrefetchHit()
	IncPrefetchMiss()
	ObservePrefetchDuration(duration time.Duration)

	// Analytics log metrics
	IncEventRecorded(kind string) // kind: "navigation" or "validation_failure"
	SetEventBufferLen(n int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
