// Package memory provides an in-memory localstore.Store for tests and for
// ephemeral sessions where nothing should touch disk.
package memory

import (
	"context"
	"sync"

	"github.com/amanihealth/amani/internal/localstore"
)

type Store struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

var _ localstore.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", localstore.ErrClosed
	}
	v, ok := s.values[key]
	if !ok {
		return "", localstore.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return localstore.ErrClosed
	}
	s.values[key] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return localstore.ErrClosed
	}
	delete(s.values, key)
	return nil
}

func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return localstore.ErrClosed
	}
	return nil
}

// Close drops all values; the store rejects further use.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.values = nil
	return nil
}
