package settings

import (
	"sync"
	"sync/atomic"
)

// Store publishes snapshots to the hook path. Readers call Current without
// locking; writers replace the whole snapshot.
type Store struct {
	cur atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []func(*Snapshot)
}

// NewStore creates a store holding initial, or Defaults if nil.
func NewStore(initial *Snapshot) *Store {
	if initial == nil {
		initial = Defaults()
	}
	s := &Store{}
	s.cur.Store(initial.Clone())
	return s
}

// Current returns the latest published snapshot. Callers must not modify it.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// Publish replaces the current snapshot with a private copy of next and
// notifies subscribers.
func (s *Store) Publish(next *Snapshot) {
	snap := next.Clone()
	s.cur.Store(snap)

	s.mu.Lock()
	listeners := append([]func(*Snapshot){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Update applies fn to a copy of the current snapshot and publishes it.
func (s *Store) Update(fn func(*Snapshot)) *Snapshot {
	next := s.Current().Clone()
	fn(next)
	s.Publish(next)
	return s.Current()
}

// Subscribe registers fn to be called after every Publish.
func (s *Store) Subscribe(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
