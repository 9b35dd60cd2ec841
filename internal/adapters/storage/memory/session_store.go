package memory

import (
	"sync"

	"github.com/PabloGalante/psychologue-api/internal/domain"
)

// DefaultHistoryLimit is the number of turns kept per conversation.
const DefaultHistoryLimit = 20

// SessionStore keeps one bounded conversation log per session key.
// Each call is atomic; concurrent requests on the same session are not
// serialized and may interleave their appends.
type SessionStore struct {
	mu    sync.RWMutex
	logs  map[domain.SessionKey][]domain.Turn
	limit int
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithLimit(DefaultHistoryLimit)
}

// NewSessionStoreWithLimit creates a store trimming logs to limit turns.
func NewSessionStoreWithLimit(limit int) *SessionStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &SessionStore{
		logs:  make(map[domain.SessionKey][]domain.Turn),
		limit: limit,
	}
}

// Append adds turn to the log of key, creating it if needed, then drops
// the oldest turns beyond the limit.
func (s *SessionStore) Append(key domain.SessionKey, turn domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.logs[key], turn)
	if len(log) > s.limit {
		trimmed := make([]domain.Turn, s.limit)
		copy(trimmed, log[len(log)-s.limit:])
		log = trimmed
	}
	s.logs[key] = log
}

// Get returns a copy of the log of key.
func (s *SessionStore) Get(key domain.SessionKey) ([]domain.Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log, ok := s.logs[key]
	if !ok {
		return nil, false
	}

	out := make([]domain.Turn, len(log))
	copy(out, log)
	return out, true
}

// Clear removes the log of key and reports whether it existed.
func (s *SessionStore) Clear(key domain.SessionKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[key]; !ok {
		return false
	}
	delete(s.logs, key)
	return true
}
