// Package memory provides a process-local KeyValueStore. It is the default
// backend and doubles as a test fake for code that needs a real store.
package memory

import (
	"context"
	"sync"

	"github.com/phrazzld/kopio/internal/store"
)

// Store keeps values in a map guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

var (
	_ store.KeyValueStore = (*Store)(nil)
	_ store.BatchSetter   = (*Store)(nil)
)

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// SetMany stores every entry under a single lock.
func (s *Store) SetMany(_ context.Context, entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	for k, v := range entries {
		s.data[k] = append([]byte(nil), v...)
	}
	return nil
}

// Close drops the stored values. Later calls fail with store.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.data = nil
	return nil
}
