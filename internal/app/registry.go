package app

import (
	"fmt"
	"strings"
	"sync"

	"timed-quiz-service/internal/domain"
)

// Registry maps quiz names to quizzes for the lifetime of the process.
// Names are unique and listed in creation order.
type Registry struct {
	mu      sync.RWMutex
	quizzes map[string]*domain.Quiz
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{quizzes: make(map[string]*domain.Quiz)}
}

// Create registers an empty quiz under name.
func (r *Registry) Create(name string) (*domain.Quiz, error) {
	quiz := domain.NewQuiz(name)
	if err := r.Add(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Add registers an already populated quiz under its own name.
func (r *Registry) Add(quiz *domain.Quiz) error {
	name := quiz.Name()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: quiz name must be non-empty", domain.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[name]; ok {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateName, name)
	}
	r.quizzes[name] = quiz
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Get(name string) (*domain.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quiz, ok := r.quizzes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrQuizNotFound, name)
	}
	return quiz, nil
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.quizzes[name]
	return ok
}

// Names lists registered names in creation order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
