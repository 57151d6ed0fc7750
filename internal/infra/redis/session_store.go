package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nanonerds-quiz-service/internal/domain"
)

// SessionStore is a Redis implementation of app.SessionRepository.
// The session is written as JSON under one key whose TTL is refreshed on every save, so a
// crashed process leaves no session behind for longer than ttl. The engine still owns the
// timer; Redis only holds the state it reads and writes.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context) (domain.Session, bool, error) {
	raw, err := s.client.Get(ctx, s.key()).Bytes()
	if isMiss(err) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("get session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.Session{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, true, nil
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, s.key(), raw, s.ttl).Err()
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key()).Err()
}

func (s *SessionStore) key() string {
	return "quiz:session:active"
}
