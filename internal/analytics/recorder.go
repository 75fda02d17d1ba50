// Package analytics keeps a bounded in-memory log of deep-link resolution
// attempts for diagnostics and reporting. The log lives and dies with the
// process; nothing here touches the network or disk.
package analytics

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/waylink/waylink/internal/model"
)

// DefaultCapacity is the event cap used when the configured capacity is not
// positive.
const DefaultCapacity = 100

// Recorder holds an ordered log of deep-link events, oldest first, capped at
// a fixed capacity with FIFO eviction. Append and eviction run under one
// lock so the cap holds exactly under concurrent writers. Handlers never
// record; the component that calls dispatch owns recording.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	events   []model.DeepLinkEvent
}

// NewRecorder creates a Recorder keeping at most capacity events.
// Non-positive capacities fall back to DefaultCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{
		capacity: capacity,
		events:   make([]model.DeepLinkEvent, 0, capacity),
	}
}

// TrackNavigation appends an event built from a parsed link descriptor.
// navTime is optional; pass nil when the caller did not time the navigation.
func (r *Recorder) TrackNavigation(url string, link *model.ParsedDeepLink, handler model.HandlerName, source model.Source, navTime *time.Duration) {
	event := model.DeepLinkEvent{
		ID:        ulid.Make().String(),
		Timestamp: time.Now().UTC(),
		URL:       url,
		Handler:   handler,
		IsValid:   true,
		NavTime:   navTime,
		Source:    source,
	}
	if link != nil {
		event.Path = link.Path
		event.QueryParams = copyParams(link.QueryParams)
		event.IsValid = link.IsValid
		event.ErrorMessage = link.ErrorMessage
	}
	r.append(event)
}

// TrackValidationFailure appends a failure event for a link that never
// produced a usable descriptor. Only the raw URL and the failure message are
// known at that point.
func (r *Recorder) TrackValidationFailure(url, errMsg string, source model.Source) {
	r.append(model.DeepLinkEvent{
		ID:           ulid.Make().String(),
		Timestamp:    time.Now().UTC(),
		URL:          url,
		IsValid:      false,
		ErrorMessage: errMsg,
		Source:       source,
	})
}

func (r *Recorder) append(event model.DeepLinkEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) < r.capacity {
		r.events = append(r.events, event)
		return
	}
	// At capacity: shift left one slot and overwrite the tail. The log
	// stays a plain slice so snapshots remain simple copies.
	copy(r.events, r.events[1:])
	r.events[len(r.events)-1] = event
}

// Events returns a copy of the log, oldest first.
func (r *Recorder) Events() []model.DeepLinkEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.DeepLinkEvent, len(r.events))
	copy(out, r.events)
	return out
}

// ValidEvents returns a copy holding only events for valid links.
func (r *Recorder) ValidEvents() []model.DeepLinkEvent {
	return r.filtered(true)
}

// FailedEvents returns a copy holding only failure events.
func (r *Recorder) FailedEvents() []model.DeepLinkEvent {
	return r.filtered(false)
}

func (r *Recorder) filtered(valid bool) []model.DeepLinkEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.DeepLinkEvent, 0)
	for _, e := range r.events {
		if e.IsValid == valid {
			out = append(out, e)
		}
	}
	return out
}

// AverageNavTime returns the mean navigation time over the events that
// recorded one, zero when none did.
func (r *Recorder) AverageNavTime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return averageNavTime(r.events)
}

// Len returns the number of retained events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Clear empties the log. Used for test isolation and manual resets.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = r.events[:0]
}

func averageNavTime(events []model.DeepLinkEvent) time.Duration {
	var sum time.Duration
	var n int
	for _, e := range events {
		if e.NavTime != nil {
			sum += *e.NavTime
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / time.Duration(n)
}

func copyParams(params map[string]string) map[string]string {
	if params == nil {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
