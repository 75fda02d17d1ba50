// Package navigation provides the in-process navigation stacks consumed by
// the dispatch layer. Stack is the history-keeping navigator used by an app
// shell; Recording captures operations without keeping history semantics and
// backs the resolve API and the dispatcher tests.
package navigation

import "sync"

// Stack is a mutex-guarded navigation history. The zero value is not usable;
// construct with NewStack.
type Stack struct {
	mu      sync.Mutex
	entries []string
}

// NewStack creates an empty navigation stack.
func NewStack() *Stack {
	return &Stack{entries: make([]string, 0)}
}

// Push adds a path on top of the history.
func (s *Stack) Push(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, path)
}

// Replace swaps the current top entry for path. On an empty stack it behaves
// like Push, so redirect-style handlers work before any navigation happened.
func (s *Stack) Replace(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		s.entries = append(s.entries, path)
		return
	}
	s.entries[len(s.entries)-1] = path
}

// Pop removes and returns the top entry. The second return is false when the
// stack is empty.
func (s *Stack) Pop() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Peek returns the top entry without removing it.
func (s *Stack) Peek() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[len(s.entries)-1], true
}

// Len returns the number of entries in the history.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear drops the whole history.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}
