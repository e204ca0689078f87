// Package memory implements an in-memory blob Store for tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"turnero/internal/blobstore/core"
)

// Store implements core.Store backed by process memory.
type Store struct {
	mu   sync.RWMutex
	objs map[string][]byte
}

// New returns an empty in-memory blob store.
func New() *Store { return &Store{objs: make(map[string][]byte)} }

func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data, replacing any previous value.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objs[key] = append([]byte(nil), data...)
	return nil
}

func (s *Store) Close() error { return nil }
