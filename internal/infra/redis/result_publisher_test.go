package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"timed-quiz-service/internal/domain"
)

func TestResultPublisherPublishesJSON(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := newClient(mr)
	sub := client.Subscribe(ctx, ResultsChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	publisher := NewResultPublisher(client)
	result := domain.Result{
		SessionID:  "s1",
		QuizName:   "Math",
		Outcome:    domain.OutcomeCompleted,
		Score:      1,
		Total:      2,
		Percentage: 50,
		Missed:     []domain.MissedAnswer{{Number: 2, Prompt: "Pick Z", ChosenAnswer: "W", CorrectAnswer: "Z"}},
	}
	if err := publisher.Publish(ctx, result); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var got domain.Result
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.SessionID != "s1" || got.Percentage != 50 || len(got.Missed) != 1 {
			t.Fatalf("unexpected result %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for published result")
	}
}

func TestResultPublisherReportsConnectionErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	if err := NewResultPublisher(client).Publish(context.Background(), domain.Result{}); err == nil {
		t.Fatalf("expected error from closed redis")
	}
}
