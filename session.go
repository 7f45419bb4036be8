package edugo

import "sync"

// Session is one user's quiz state. Created lazily on first interaction,
// lives until process restart. All access goes through SessionStore.With,
// which serializes mutations per user.
type Session struct {
	// Pending holds the remaining questions of the active set, consumed
	// from the front.
	Pending []Question
	// LastSent is the question awaiting an answer; nil while idle.
	LastSent *Question
	// Source says where the active set came from.
	Source Source
	// GeneratedPool keeps the full generated set for the user's uploaded
	// document; continue-rounds resample from it until it is exhausted.
	GeneratedPool []Question
}

// PopPending removes and returns the front of the pending queue.
func (s *Session) PopPending() (Question, bool) {
	if len(s.Pending) == 0 {
		return Question{}, false
	}
	q := s.Pending[0]
	s.Pending = s.Pending[1:]
	return q, true
}

// Reset clears all quiz state, returning the session to idle.
func (s *Session) Reset() {
	s.Pending = nil
	s.LastSent = nil
	s.Source = ""
	s.GeneratedPool = nil
}

// SessionStore keeps per-user sessions behind per-user locks. Operations on
// different users run fully in parallel; operations on one user are
// serialized, so concurrent callbacks cannot interleave half-applied state.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*sessionEntry
}

type sessionEntry struct {
	mu sync.Mutex
	s  Session
}

// NewSessionStore creates an empty session registry.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*sessionEntry)}
}

func (ss *SessionStore) entry(userID int64) *sessionEntry {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	e, ok := ss.sessions[userID]
	if !ok {
		e = &sessionEntry{}
		ss.sessions[userID] = e
	}
	return e
}

// With runs fn with exclusive access to the user's session. fn must not
// block on network I/O; long-running calls belong outside the lock.
func (ss *SessionStore) With(userID int64, fn func(*Session)) {
	e := ss.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.s)
}

// Count returns the number of sessions seen since startup.
func (ss *SessionStore) Count() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}
