// pkg/memcache/session_store.go
package mem

import "sync"

// SessionStore is an in-process key/value store partitioned by session.
// It backs the "memory" store driver and the tests.
type SessionStore interface {
	Get(sessionID, key string) (string, bool)
	Set(sessionID, key, value string)

	// Drop removes every key of the session.
	Drop(sessionID string)

	Len() int
}

type SessionValues struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewSessionValues() *SessionValues {
	return &SessionValues{
		data: make(map[string]map[string]string),
	}
}

func (s *SessionValues) Get(sessionID, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.data[sessionID]
	if !ok {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (s *SessionValues) Set(sessionID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.data[sessionID]
	if !ok {
		values = make(map[string]string)
		s.data[sessionID] = values
	}
	values[key] = value
}

func (s *SessionValues) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
}

// Len returns the number of sessions holding at least one key.
func (s *SessionValues) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
