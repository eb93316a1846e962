package memory

import (
	"context"
	"sync"

	"timed-quiz-service/internal/domain"
)

// ResultFeed fans session results out to in-process subscribers.
type ResultFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.Result]struct{}
}

func NewResultFeed() *ResultFeed {
	return &ResultFeed{subscribers: make(map[chan domain.Result]struct{})}
}

// Publish implements app.ResultPublisher. It never blocks on slow subscribers.
func (f *ResultFeed) Publish(_ context.Context, result domain.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- result:
		default:
			// drop the oldest pending result so a slow reader cannot stall publishing
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
	return nil
}

// Subscribe returns a channel of results published from now on.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ResultFeed) Subscribe() (<-chan domain.Result, func()) {
	ch := make(chan domain.Result, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}
