package memory

import (
	"context"
	"sync"

	"nanonerds-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// It hands out copies so callers never share the answers map with the store.
type SessionStore struct {
	mu      sync.RWMutex
	session *domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Get(_ context.Context) (domain.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return domain.Session{}, false, nil
	}
	return s.session.Clone(), true, nil
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := session.Clone()
	s.session = &stored
	return nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
