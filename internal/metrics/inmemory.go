package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ParseValid   uint64
	ParseInvalid uint64

	DispatchHandled         uint64
	DispatchFailed          uint64
	DispatchUnknownHandler  uint64
	DispatchDurationCount   uint64
	DispatchDurationTotalNs int64

	PrefetchHits            uint64
	PrefetchMisses          uint64
	PrefetchDurationCount   uint64
	PrefetchDurationTotalNs int64

	NavigationEvents        uint64
	ValidationFailureEvents uint64
	EventBufferLen          int64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint
// and the tests.
type InMemoryRecorder struct {
	parseValid   uint64
	parseInvalid uint64

	dispatchHandled         uint64
	dispatchFailed          uint64
	dispatchUnknownHandler  uint64
	dispatchDurationCount   uint64
	dispatchDurationTotalNs int64

	prefetchHits            uint64
	prefetchMisses          uint64
	prefetchDurationCount   uint64
	prefetchDurationTotalNs int64

	navigationEvents        uint64
	validationFailureEvents uint64
	eventBufferLen          int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		ParseValid:              atomic.LoadUint64(&m.parseValid),
		ParseInvalid:            atomic.LoadUint64(&m.parseInvalid),
		DispatchHandled:         atomic.LoadUint64(&m.dispatchHandled),
		DispatchFailed:          atomic.LoadUint64(&m.dispatchFailed),
		DispatchUnknownHandler:  atomic.LoadUint64(&m.dispatchUnknownHandler),
		DispatchDurationCount:   atomic.LoadUint64(&m.dispatchDurationCount),
		DispatchDurationTotalNs: atomic.LoadInt64(&m.dispatchDurationTotalNs),
		PrefetchHits:            atomic.LoadUint64(&m.prefetchHits),
		PrefetchMisses:          atomic.LoadUint64(&m.prefetchMisses),
		PrefetchDurationCount:   atomic.LoadUint64(&m.prefetchDurationCount),
		PrefetchDurationTotalNs: atomic.LoadInt64(&m.prefetchDurationTotalNs),
		NavigationEvents:        atomic.LoadUint64(&m.navigationEvents),
		ValidationFailureEvents: atomic.LoadUint64(&m.validationFailureEvents),
		EventBufferLen:          atomic.LoadInt64(&m.eventBufferLen),
	}
}

// IncParseValid increments the valid-parse counter.
func (m *InMemoryRecorder) IncParseValid() {
	atomic.AddUint64(&m.parseValid, 1)
}

// IncParseInvalid increments the invalid-parse counter.
func (m *InMemoryRecorder) IncParseInvalid() {
	atomic.AddUint64(&m.parseInvalid, 1)
}

// IncDispatchResult increments the counter for one dispatch outcome.
// Unknown statuses are dropped.
func (m *InMemoryRecorder) IncDispatchResult(status string) {
	switch status {
	case "handled":
		atomic.AddUint64(&m.dispatchHandled, 1)
	case "failed":
		atomic.AddUint64(&m.dispatchFailed, 1)
	case "unknown_handler":
		atomic.AddUint64(&m.dispatchUnknownHandler, 1)
	}
}

// ObserveDispatchDuration records one dispatch duration.
func (m *InMemoryRecorder) ObserveDispatchDuration(duration time.Duration) {
	atomic.AddUint64(&m.dispatchDurationCount, 1)
	atomic.AddInt64(&m.dispatchDurationTotalNs, duration.Nanoseconds())
}

// IncPrefetchHit increments the warm-cache counter.
func (m *InMemoryRecorder) IncPrefetchHit() {
	atomic.AddUint64(&m.prefetchHits, 1)
}

// IncPrefetchMiss increments the cold-cache counter.
func (m *InMemoryRecorder) IncPrefetchMiss() {
	atomic.AddUint64(&m.prefetchMisses, 1)
}

// ObservePrefetchDuration records one prefetch duration.
func (m *InMemoryRecorder) ObservePrefetchDuration(duration time.Duration) {
	atomic.AddUint64(&m.prefetchDurationCount, 1)
	atomic.AddInt64(&m.prefetchDurationTotalNs, duration.Nanoseconds())
}

// IncEventRecorded increments the counter for one analytics event kind.
// Unknown kinds are dropped.
func (m *InMemoryRecorder) IncEventRecorded(kind string) {
	switch kind {
	case "navigation":
		atomic.AddUint64(&m.navigationEvents, 1)
	case "validation_failure":
		atomic.AddUint64(&m.validationFailureEvents, 1)
	}
}

// SetEventBufferLen records the current analytics buffer length.
func (m *InMemoryRecorder) SetEventBufferLen(n int64) {
	atomic.StoreInt64(&m.eventBufferLen, n)
}
