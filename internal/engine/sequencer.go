package engine

import (
	"sync"
)

// sequencer hands out one mutex per user so location updates for the
// same user never overlap while different users proceed in parallel
type sequencer struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newSequencer() *sequencer {
	return &sequencer{locks: make(map[string]*userLock)}
}

// lock acquires the user's mutex and returns its release function. Locks
// are reference counted and removed from the map when idle, so the map
// does not grow with every user ever seen.
func (s *sequencer) lock(userID string) func() {
	s.mu.Lock()
	ul, ok := s.locks[userID]
	if !ok {
		ul = &userLock{}
		s.locks[userID] = ul
	}
	ul.refs++
	s.mu.Unlock()

	ul.mu.Lock()

	return func() {
		ul.mu.Unlock()

		s.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}
