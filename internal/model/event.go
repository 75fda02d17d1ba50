// Package model defines domain entities for the application.
package model

import "time"

// DeepLinkEvent records one deep-link resolution attempt. Events are
// immutable once appended to the analytics log; the ULID gives FIFO
// eviction a time-sortable identity that tests can check.
type DeepLinkEvent struct {
	ID        string    `json:"id"` // ULID (time-sortable)
	Timestamp time.Time `json:"timestamp"`

	// URL is the original raw input string.
	URL string `json:"url"`

	// Path and QueryParams are copied from the parsed descriptor.
	// Both are empty for validation failures recorded before a
	// descriptor existed.
	Path        string            `json:"path,omitempty"`
	QueryParams map[string]string `json:"query_params,omitempty"`

	// Handler is the matched handler name, empty when none matched.
	Handler HandlerName `json:"handler,omitempty"`

	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message,omitempty"`

	// NavTime is how long the navigation took, when the caller timed it.
	NavTime *time.Duration `json:"nav_time,omitempty"`

	Source Source `json:"source"`
}

// IsFailed returns true for events recorded against an invalid link.
func (e *DeepLinkEvent) IsFailed() bool {
	return !e.IsValid
}

// DeepLinkStats aggregates the analytics log for API responses.
type DeepLinkStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`

	// AvgNavTime is the mean over events that recorded a navigation
	// time, zero when none did.
	AvgNavTime time.Duration `json:"avg_nav_time"`

	ByHandler map[HandlerName]int `json:"by_handler"`
	BySource  map[Source]int      `json:"by_source"`
}
