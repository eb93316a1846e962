package domain

import "errors"

var (
	// ErrValidation covers blank or malformed input, choice-count violations and
	// correct answers that are not among the choices.
	ErrValidation = errors.New("validation failed")
	// ErrIndexOutOfRange is returned for a choice or question position outside its bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTypeMismatch is returned when a missing or unvalidated question is added to a quiz.
	ErrTypeMismatch = errors.New("item is not a validated question")
	// ErrDuplicateName is returned when a quiz name is already registered.
	ErrDuplicateName = errors.New("quiz name already exists")
	// ErrQuizNotFound indicates the named quiz is not registered.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrEmptyQuiz prevents a session from starting over a quiz without questions.
	ErrEmptyQuiz = errors.New("that quiz has no questions")
	// ErrSessionFinished is returned for events delivered after a session terminated.
	ErrSessionFinished = errors.New("quiz session already finished")
	// ErrSessionNotFound is returned when a live session id is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
)
