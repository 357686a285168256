// Package session holds the assistant continuity token for one client lifetime.
package session

import "sync"

// Key is the fixed name the token is persisted under.
const Key = "taskAgentThreadId"

// Store holds the continuity token. The empty string means absent.
type Store interface {
	// Reset discards any token, persisted or not.
	Reset() error
	Get() string
	// Set replaces the token when it is non-empty and differs from the
	// current one. It reports whether the token changed.
	Set(token string) (bool, error)
}

// MemoryStore keeps the token in process only.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) Set(token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || token == s.token {
		return false, nil
	}
	s.token = token
	return true, nil
}
