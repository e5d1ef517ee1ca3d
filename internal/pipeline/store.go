package pipeline

import (
	"sync"
	"time"
)

// Store holds the currently displayed snapshot. The whole snapshot is
// replaced as a value; nothing inside a published snapshot is ever mutated.
type Store struct {
	mu          sync.RWMutex
	current     *Snapshot
	stale       bool
	lastErr     string
	lastAttempt time.Time
}

// State is a point-in-time view of the store for consumers: the current
// snapshot (nil before the first successful load) plus failure context.
type State struct {
	Snapshot    *Snapshot
	Stale       bool
	LastError   string
	LastAttempt time.Time
}

// Current returns the store state under a read lock.
func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Snapshot:    s.current,
		Stale:       s.stale,
		LastError:   s.lastErr,
		LastAttempt: s.lastAttempt,
	}
}

// Replace atomically swaps in a new snapshot and clears any stale marker.
func (s *Store) Replace(sn *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sn
	s.stale = false
	s.lastErr = ""
	s.lastAttempt = time.Now()
}

// MarkFailed records a failed load. The previous snapshot, if any, stays
// displayed; consumers see it flagged stale with the failure reason.
func (s *Store) MarkFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.stale = true
	}
	s.lastErr = err.Error()
	s.lastAttempt = time.Now()
}
