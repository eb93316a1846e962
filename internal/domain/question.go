package domain

import (
	"fmt"
	"strings"
)

// MinChoices is the smallest number of choices a question may carry.
const MinChoices = 2

// QuestionItem is a multiple-choice question whose correct answer is always one of its choices.
// It is not safe for concurrent use; Quiz serializes access to the items it holds.
type QuestionItem struct {
	prompt        string
	choices       []string
	correctAnswer string
	valid         bool
}

// NewQuestionItem validates all three fields together and returns the question.
func NewQuestionItem(prompt string, choices []string, correctAnswer string) (*QuestionItem, error) {
	if isBlank(prompt) {
		return nil, fmt.Errorf("%w: question must be a non-empty string", ErrValidation)
	}
	if len(choices) < MinChoices {
		return nil, fmt.Errorf("%w: there must be at least two choices", ErrValidation)
	}
	for _, c := range choices {
		if isBlank(c) {
			return nil, fmt.Errorf("%w: each choice must be a non-empty string", ErrValidation)
		}
	}
	if isBlank(correctAnswer) {
		return nil, fmt.Errorf("%w: correct answer must be a non-empty string", ErrValidation)
	}
	if !contains(choices, correctAnswer) {
		return nil, fmt.Errorf("%w: correct answer must be one of the choices", ErrValidation)
	}

	return &QuestionItem{
		prompt:        prompt,
		choices:       append([]string(nil), choices...),
		correctAnswer: correctAnswer,
		valid:         true,
	}, nil
}

func (q *QuestionItem) Prompt() string { return q.prompt }

func (q *QuestionItem) CorrectAnswer() string { return q.correctAnswer }

func (q *QuestionItem) ChoiceCount() int { return len(q.choices) }

// Choices returns a copy of the choices in display order.
func (q *QuestionItem) Choices() []string {
	return append([]string(nil), q.choices...)
}

// Choice returns the choice at a 0-based index.
func (q *QuestionItem) Choice(index int) (string, error) {
	if index < 0 || index >= len(q.choices) {
		return "", fmt.Errorf("%w: choice index %d", ErrIndexOutOfRange, index)
	}
	return q.choices[index], nil
}

// SetPrompt replaces the question text.
func (q *QuestionItem) SetPrompt(text string) error {
	if isBlank(text) {
		return fmt.Errorf("%w: question must be a non-empty string", ErrValidation)
	}
	q.prompt = text
	return nil
}

// SetChoice replaces one choice in place. Replacing the only slot that holds the
// correct answer is rejected; reassign the correct answer first.
func (q *QuestionItem) SetChoice(index int, text string) error {
	if isBlank(text) {
		return fmt.Errorf("%w: choice must be a non-empty string", ErrValidation)
	}
	if index < 0 || index >= len(q.choices) {
		return fmt.Errorf("%w: choice index %d", ErrIndexOutOfRange, index)
	}
	if q.choices[index] == q.correctAnswer && text != q.correctAnswer && q.count(q.correctAnswer) == 1 {
		return fmt.Errorf("%w: choice %d holds the correct answer, change the correct answer first", ErrValidation, index+1)
	}
	q.choices[index] = text
	return nil
}

// SetCorrectAnswer replaces the correct answer with a value already among the choices.
func (q *QuestionItem) SetCorrectAnswer(text string) error {
	if isBlank(text) {
		return fmt.Errorf("%w: correct answer must be a non-empty string", ErrValidation)
	}
	if !contains(q.choices, text) {
		return fmt.Errorf("%w: correct answer must be one of the choices", ErrValidation)
	}
	q.correctAnswer = text
	return nil
}

// Clone returns an independent copy.
func (q *QuestionItem) Clone() *QuestionItem {
	c := *q
	c.choices = append([]string(nil), q.choices...)
	return &c
}

// IsCorrect compares an answer to the correct answer by exact string equality.
func (q *QuestionItem) IsCorrect(answer string) bool {
	return answer == q.correctAnswer
}

func (q *QuestionItem) count(text string) int {
	n := 0
	for _, c := range q.choices {
		if c == text {
			n++
		}
	}
	return n
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
