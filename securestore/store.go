// Package securestore provides the opaque string key-value store the engine
// uses to locate client-side state (current user record, auth token). The
// engine only depends on the Store interface; the presentation layer may
// substitute a platform keychain.
package securestore

import "sync"

// Store is an opaque string key-value store. Get reports presence separately
// from errors so a missing key is not an error condition.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// MemStore is an in-memory Store for tests and ephemeral sessions.
type MemStore struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
