package memstore

import (
	"context"
	"maps"
	"sync"

	"github.com/cognicore/evasao/pkg/evasao/store"
)

// Store is an in-memory implementation of store.Store for tests and dry runs.
type Store struct {
	mu      sync.RWMutex
	entries map[store.Key]store.Entry
	writes  int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{entries: make(map[store.Key]store.Entry)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// Load returns a copy of every entry.
func (s *Store) Load(ctx context.Context) (map[store.Key]store.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries), nil
}

// ReplaceAll overwrites the cache.
func (s *Store) ReplaceAll(ctx context.Context, entries map[store.Key]store.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = maps.Clone(entries)
	if s.entries == nil {
		s.entries = make(map[store.Key]store.Entry)
	}
	s.writes++
	return nil
}

// Put inserts or updates one entry.
func (s *Store) Put(ctx context.Context, k store.Key, e store.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[k] = e
	s.writes++
	return nil
}

// Get returns one entry.
func (s *Store) Get(ctx context.Context, k store.Key) (store.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[k]
	return e, ok, nil
}

// Delete removes the given keys.
func (s *Store) Delete(ctx context.Context, keys ...store.Key) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, k := range keys {
		if _, ok := s.entries[k]; ok {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Writes returns the number of Put and ReplaceAll calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
