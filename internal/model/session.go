// Package model defines domain entities for the application.
package model

import "time"

// SessionStatus represents the lifecycle state of a coding session.
type SessionStatus string

const (
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

// IsValid checks if the session status is a known value.
func (s SessionStatus) IsValid() bool {
	return s == SessionStatusRunning || s == SessionStatusCompleted || s == SessionStatusFailed
}

// SessionDigest is the compact session summary served to the prefetch
// cache so the session screens have data available on arrival.
type SessionDigest struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Status    SessionStatus `json:"status"`
	Repo      string        `json:"repo,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
	CreatedAt time.Time     `json:"created_at"`
}

// IsActive returns true while the session is still running.
func (s *SessionDigest) IsActive() bool {
	return s.Status == SessionStatusRunning
}
