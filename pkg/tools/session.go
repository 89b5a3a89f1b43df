package tools

import "sync"

// Session is the per-thread dispatch state. Exactly one Session is
// live per open conversation panel; it is created on the first turn of
// a thread, cleared in full on thread change, and destroyed when the
// conversation ends.
type Session struct {
	threadID string

	mu          sync.Mutex
	seenFactIDs map[string]struct{}
	theme       string
}

// NewSession creates dispatch state for a thread.
func NewSession(threadID string) *Session {
	return &Session{
		threadID:    threadID,
		seenFactIDs: make(map[string]struct{}),
	}
}

// ThreadID returns the thread this session belongs to.
func (s *Session) ThreadID() string {
	return s.threadID
}

// MarkFactSeen atomically checks and inserts a fact id into the dedupe
// set. Returns true if the id was newly inserted, false on replay.
// The insert happens before any side effect is scheduled, so two
// concurrent invocations for the same id agree on a single winner.
func (s *Session) MarkFactSeen(factID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.seenFactIDs[factID]; seen {
		return false
	}
	s.seenFactIDs[factID] = struct{}{}
	return true
}

// SetTheme records the session's active color scheme.
func (s *Session) SetTheme(theme string) {
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
}

// Theme returns the session's active color scheme, empty if never set.
func (s *Session) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// HasSeenFact reports whether a fact id is in the dedupe set.
func (s *Session) HasSeenFact(factID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, seen := s.seenFactIDs[factID]
	return seen
}

// Reset clears the dedupe set in full. Called exactly on thread-change
// events, never per invocation.
func (s *Session) Reset(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadID = threadID
	s.seenFactIDs = make(map[string]struct{})
	s.theme = ""
}
