package app

import (
	"context"
	"time"

	"timed-quiz-service/internal/domain"
)

// Ticker delivers one tick per elapsed interval.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

// NewTicker wraps time.Ticker.
func NewTicker(interval time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(interval)}
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }

func (t *timeTicker) Stop() { t.t.Stop() }

type submission struct {
	answer string
	reply  chan submitReply
}

type submitReply struct {
	accepted bool
	err      error
}

// Runner is the event loop for one session. Ticks and submissions are applied one at a
// time on the goroutine that calls Run, so the session is never touched concurrently.
type Runner struct {
	session     *Session
	ticker      Ticker
	submissions chan submission
	done        chan struct{}
}

func NewRunner(session *Session, ticker Ticker) *Runner {
	return &Runner{
		session:     session,
		ticker:      ticker,
		submissions: make(chan submission),
		done:        make(chan struct{}),
	}
}

// Run blocks until the session terminates or ctx is cancelled. Cancellation abandons the
// session without producing a result.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.ticker.Stop()

	for r.session.Running() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.ticker.C():
			_ = r.session.Tick()
		case sub := <-r.submissions:
			accepted, err := r.session.Submit(sub.answer)
			sub.reply <- submitReply{accepted: accepted, err: err}
		}
	}
	return nil
}

// Submit hands an answer to the event loop and waits until it has been applied.
func (r *Runner) Submit(ctx context.Context, answer string) (bool, error) {
	reply := make(chan submitReply, 1)
	select {
	case r.submissions <- submission{answer: answer, reply: reply}:
	case <-r.done:
		return false, domain.ErrSessionFinished
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.accepted, res.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Result returns the session result after Run has returned.
func (r *Runner) Result() (domain.Result, bool) {
	select {
	case <-r.done:
		return r.session.Result()
	default:
		return domain.Result{}, false
	}
}
