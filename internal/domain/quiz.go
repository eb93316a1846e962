package domain

import (
	"fmt"
	"sync"
)

// Quiz is a named, ordered, append-only collection of questions.
// Insertion order is the preview and session order.
type Quiz struct {
	name string

	mu    sync.RWMutex
	items []*QuestionItem
}

func NewQuiz(name string) *Quiz {
	return &Quiz{name: name}
}

func (q *Quiz) Name() string { return q.name }

// AddQuestion appends a validated question.
func (q *Quiz) AddQuestion(item *QuestionItem) error {
	if item == nil || !item.valid {
		return ErrTypeMismatch
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item.Clone())
	return nil
}

// Questions returns copies of the questions in order, so callers can iterate without
// observing later edits.
func (q *Quiz) Questions() []*QuestionItem {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]*QuestionItem, len(q.items))
	for i, item := range q.items {
		out[i] = item.Clone()
	}
	return out
}

func (q *Quiz) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// UpdateQuestion runs edit against a copy of the question at a 0-based index and
// commits the copy only when edit succeeds.
func (q *Quiz) UpdateQuestion(index int, edit func(item *QuestionItem) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return fmt.Errorf("%w: question %d", ErrIndexOutOfRange, index+1)
	}
	draft := q.items[index].Clone()
	if err := edit(draft); err != nil {
		return err
	}
	q.items[index] = draft
	return nil
}
