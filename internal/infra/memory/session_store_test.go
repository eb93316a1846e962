package memory

import (
	"testing"
	"time"

	"timed-quiz-service/internal/app"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	now := time.Now()

	store.Save(&app.LiveSession{ID: "b", QuizName: "Math", StartedAt: now.Add(time.Second)})
	store.Save(&app.LiveSession{ID: "a", QuizName: "Math", StartedAt: now})

	if _, ok := store.Get("a"); !ok {
		t.Fatalf("expected session present")
	}
	list := store.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("expected sessions ordered by start, got %+v", list)
	}

	store.Delete("a")
	if _, ok := store.Get("a"); ok {
		t.Fatalf("expected session removed")
	}
	if len(store.List()) != 1 {
		t.Fatalf("expected one session left")
	}
}
