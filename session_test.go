package edugo

import (
	"sync"
	"testing"
)

func TestSessionPopPending(t *testing.T) {
	s := Session{Pending: []Question{{Text: "q1"}, {Text: "q2"}}}

	q, ok := s.PopPending()
	if !ok || q.Text != "q1" {
		t.Errorf("Expected q1 first, got %+v (ok=%v)", q, ok)
	}
	q, ok = s.PopPending()
	if !ok || q.Text != "q2" {
		t.Errorf("Expected q2 next, got %+v (ok=%v)", q, ok)
	}
	if _, ok := s.PopPending(); ok {
		t.Error("Pop on empty queue must report false")
	}
}

func TestSessionReset(t *testing.T) {
	q := Question{Text: "q"}
	s := Session{
		Pending:       []Question{q},
		LastSent:      &q,
		Source:        SourceGenerated,
		GeneratedPool: []Question{q},
	}
	s.Reset()
	if s.Pending != nil || s.LastSent != nil || s.Source != "" || s.GeneratedPool != nil {
		t.Errorf("Reset must clear all state: %+v", s)
	}
}

func TestSessionStoreLazyCreation(t *testing.T) {
	ss := NewSessionStore()
	if ss.Count() != 0 {
		t.Fatalf("Expected empty store, got %d", ss.Count())
	}

	ss.With(1, func(s *Session) {
		if s.LastSent != nil || len(s.Pending) != 0 {
			t.Errorf("Fresh session must be idle: %+v", s)
		}
	})
	if ss.Count() != 1 {
		t.Errorf("Expected 1 session after first touch, got %d", ss.Count())
	}
}

func TestSessionStoreSerializesPerUser(t *testing.T) {
	ss := NewSessionStore()

	// Hammer one user's queue from many goroutines; with per-user locking
	// every append survives.
	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ss.With(42, func(s *Session) {
				s.Pending = append(s.Pending, Question{Text: "q"})
			})
		}()
	}
	wg.Wait()

	ss.With(42, func(s *Session) {
		if len(s.Pending) != writers {
			t.Errorf("Lost updates: expected %d pending, got %d", writers, len(s.Pending))
		}
	})
}

func TestSessionStoreUsersIsolated(t *testing.T) {
	ss := NewSessionStore()
	ss.With(1, func(s *Session) { s.Source = SourceBank })
	ss.With(2, func(s *Session) {
		if s.Source != "" {
			t.Errorf("User 2 must not see user 1's state: %q", s.Source)
		}
	})
}
