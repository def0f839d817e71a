package prices

import "sync"

// Store holds the cached day series. The series is replaced wholesale
// on each successful fetch, so a reader always sees either the old or
// the fully replaced new series.
type Store struct {
	mu  sync.RWMutex
	day Day
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Replace(d Day) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.day = d
}

// Current returns the cached series. Callers must treat it as
// read-only.
func (s *Store) Current() Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.day) == 0
}
