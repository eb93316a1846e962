package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

func TestRunnerAppliesSubmissions(t *testing.T) {
	session, _ := app.NewSession("s1", twoQuestionQuiz(t), nil)
	ticker := newManualTicker()
	runner := app.NewRunner(session, ticker)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(context.Background()) }()

	ctx := context.Background()
	if accepted, err := runner.Submit(ctx, ""); err != nil || accepted {
		t.Fatalf("expected empty answer to be refused, got accepted=%v err=%v", accepted, err)
	}
	if accepted, err := runner.Submit(ctx, "A"); err != nil || !accepted {
		t.Fatalf("submit A: accepted=%v err=%v", accepted, err)
	}
	if accepted, err := runner.Submit(ctx, "W"); err != nil || !accepted {
		t.Fatalf("submit W: accepted=%v err=%v", accepted, err)
	}

	if err := <-errCh; err != nil {
		t.Fatalf("run: %v", err)
	}
	result, ok := runner.Result()
	if !ok || result.Score != 1 || result.Percentage != 50 {
		t.Fatalf("unexpected result %+v ok=%v", result, ok)
	}
	if !ticker.stopped() {
		t.Fatalf("expected ticker stopped")
	}
	if _, err := runner.Submit(ctx, "A"); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected finished error, got %v", err)
	}
}

func TestRunnerTimesOutOnTicks(t *testing.T) {
	rec := &syncRecorder{}
	session, _ := app.NewSession("s1", twoQuestionQuiz(t), rec, app.WithSecondsPerQuestion(2))
	ticker := newManualTicker()
	runner := app.NewRunner(session, ticker)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(context.Background()) }()

	for i := 0; i < 4; i++ {
		ticker.fire()
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runner did not stop after the budget ran out")
	}

	result, ok := runner.Result()
	if !ok || result.Outcome != domain.OutcomeTimedOut {
		t.Fatalf("expected timed out result, got %+v ok=%v", result, ok)
	}
	if n := rec.tickCount(); n != 5 {
		t.Fatalf("expected 4 readouts plus the final zero, got %d", n)
	}
}

func TestRunnerCancellationAbandonsSession(t *testing.T) {
	session, _ := app.NewSession("s1", twoQuestionQuiz(t), nil)
	runner := app.NewRunner(session, newManualTicker())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if _, ok := runner.Result(); ok {
		t.Fatalf("abandoned session must not produce a result")
	}
	<-runner.Done()
}

func TestRunnerResultBeforeDone(t *testing.T) {
	session, _ := app.NewSession("s1", twoQuestionQuiz(t), nil)
	runner := app.NewRunner(session, newManualTicker())
	if _, ok := runner.Result(); ok {
		t.Fatalf("expected no result before run")
	}
}

// manualTicker fires only when the test says so.
type manualTicker struct {
	ch   chan time.Time
	mu   sync.Mutex
	stop bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	m.stop = true
	m.mu.Unlock()
}

func (m *manualTicker) fire() { m.ch <- time.Now() }

func (m *manualTicker) stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

type syncRecorder struct {
	mu        sync.Mutex
	questions []domain.QuestionView
	ticks     []domain.TickReadout
	results   []domain.Result
}

func (r *syncRecorder) OnQuestion(v domain.QuestionView) {
	r.mu.Lock()
	r.questions = append(r.questions, v)
	r.mu.Unlock()
}

func (r *syncRecorder) OnTick(t domain.TickReadout) {
	r.mu.Lock()
	r.ticks = append(r.ticks, t)
	r.mu.Unlock()
}

func (r *syncRecorder) OnResult(res domain.Result) {
	r.mu.Lock()
	r.results = append(r.results, res)
	r.mu.Unlock()
}

func (r *syncRecorder) tickCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

func (r *syncRecorder) resultCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}
