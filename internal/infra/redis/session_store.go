package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/infra/memory"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions stay in a local map; their event loops live in this process.
//   - Redis holds a liveness marker per session (value: quiz name) so other
//     instances and operators can see what is running. The marker lives for the
//     session's budget plus ttl, so it cannot lapse while the countdown runs.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	local  *memory.SessionStore
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		local:  memory.NewSessionStore(),
	}
}

func (s *SessionStore) Save(live *app.LiveSession) {
	s.local.Save(live)
	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(live.ID), live.QuizName, s.ttl+live.Budget).Err(); err != nil {
		log.Printf("mark session %s live: %v", live.ID, err)
	}
}

func (s *SessionStore) Get(id string) (*app.LiveSession, bool) {
	return s.local.Get(id)
}

func (s *SessionStore) Delete(id string) {
	s.local.Delete(id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore) List() []*app.LiveSession {
	return s.local.List()
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
