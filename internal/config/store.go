package config

import (
	"sync"
	"sync/atomic"
)

// Store publishes the current Snapshot. Readers never block; Reload and
// SetPlayerCountOffset swap in a new Snapshot.
type Store struct {
	path    string
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex // serializes writers
}

// NewStore loads the config at path. On error the store still holds the
// defaults and the error is returned for logging.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	snap, err := LoadConfig(path)
	s.current.Store(snap)
	return s, err
}

// NewStaticStore wraps an existing Snapshot. Reload is a no-op.
func NewStaticStore(snap *Snapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Current returns the published Snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Path returns the file the store reloads from.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the file and rebuilds the Snapshot and forced-count
// registry. The previous Snapshot stays published if the file can't be
// read or parsed.
func (s *Store) Reload() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return s.current.Load(), nil
	}
	snap, err := LoadConfig(s.path)
	if err != nil {
		return s.current.Load(), err
	}
	s.current.Store(snap)
	return snap, nil
}

// SetPlayerCountOffset publishes a copy of the current Snapshot with a new
// global player count offset.
func (s *Store) SetPlayerCountOffset(offset int) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load().WithPlayerCountOffset(offset)
	s.current.Store(snap)
	return snap
}
