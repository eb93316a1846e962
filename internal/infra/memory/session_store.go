package memory

import (
	"sort"
	"sync"

	"timed-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.LiveSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.LiveSession),
	}
}

func (s *SessionStore) Save(live *app.LiveSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[live.ID] = live
}

func (s *SessionStore) Get(id string) (*app.LiveSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	live, ok := s.sessions[id]
	return live, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// List returns live sessions ordered by start time.
func (s *SessionStore) List() []*app.LiveSession {
	s.mu.RLock()
	out := make([]*app.LiveSession, 0, len(s.sessions))
	for _, live := range s.sessions {
		out = append(out, live)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
