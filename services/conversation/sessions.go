package conversation

import (
	"sync"
	"time"

	"sonrisa/models"
)

// SessionStore keeps the in-progress dialogue state per customer. It is
// process-local and unsynchronized across restarts: a crash sends every
// in-flight conversation back to the greeting.
type SessionStore interface {
	Get(customerID string) (models.Session, bool)
	Set(customerID string, session models.Session)
	// Clear removes a session. Clearing an absent session is a no-op.
	Clear(customerID string)
	// EvictIdle drops sessions untouched for longer than ttl and returns how
	// many were removed.
	EvictIdle(ttl time.Duration) int
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewSessionStore returns an empty in-memory store.
func NewSessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]models.Session)}
}

func (s *memorySessionStore) Get(customerID string) (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[customerID]
	return session, ok
}

func (s *memorySessionStore) Set(customerID string, session models.Session) {
	session.UpdatedAt = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[customerID] = session
}

func (s *memorySessionStore) Clear(customerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, customerID)
}

func (s *memorySessionStore) EvictIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
