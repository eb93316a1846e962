package app

import (
	"time"

	"timed-quiz-service/internal/domain"
)

// DefaultSecondsPerQuestion sizes the shared countdown: the whole run gets this many
// seconds per question.
const DefaultSecondsPerQuestion = 30

// Presenter receives render payloads from a session. Calls are made on the goroutine
// that delivered the event, one at a time.
type Presenter interface {
	OnQuestion(view domain.QuestionView)
	OnTick(readout domain.TickReadout)
	OnResult(result domain.Result)
}

// StartObserver is an optional Presenter extension. StartSession calls OnStart with the
// session id before the first question is presented.
type StartObserver interface {
	OnStart(id, quizName string)
}

// State is the position of a session in its lifecycle.
type State int

const (
	StatePresenting State = iota
	StateAwaitingAnswer
	StateAdvancing
	StateTimedOut
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateAdvancing:
		return "advancing"
	case StateTimedOut:
		return "timed_out"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Session runs one pass over a quiz under a single countdown shared by all questions.
// It never schedules itself: ticks and answers arrive through Tick and Submit, and the
// caller must not invoke them concurrently (see Runner).
type Session struct {
	id        string
	quizName  string
	questions []*domain.QuestionItem
	presenter Presenter
	now       func() time.Time

	secondsPerQuestion int

	state     State
	position  int
	score     int
	missed    []domain.MissedAnswer
	remaining int
	running   bool
	result    *domain.Result
}

// SessionOption customizes a session before it presents its first question.
type SessionOption func(*Session)

// WithSecondsPerQuestion overrides DefaultSecondsPerQuestion.
func WithSecondsPerQuestion(seconds int) SessionOption {
	return func(s *Session) {
		if seconds > 0 {
			s.secondsPerQuestion = seconds
		}
	}
}

// WithClock sets the clock used to stamp results.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession snapshots the quiz questions, starts the countdown and presents the first
// question. A quiz without questions is rejected with ErrEmptyQuiz.
func NewSession(id string, quiz *domain.Quiz, presenter Presenter, opts ...SessionOption) (*Session, error) {
	questions := quiz.Questions()
	if len(questions) == 0 {
		return nil, domain.ErrEmptyQuiz
	}
	if presenter == nil {
		presenter = nopPresenter{}
	}

	s := &Session{
		id:                 id,
		quizName:           quiz.Name(),
		questions:          questions,
		presenter:          presenter,
		now:                time.Now,
		secondsPerQuestion: DefaultSecondsPerQuestion,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.remaining = s.secondsPerQuestion * len(questions)
	s.running = true
	s.present()
	return s, nil
}

// Tick reports the current countdown and then consumes one second. The tick that
// exhausts the budget also reports the zero readout and times the session out;
// questions not answered by then are never scored.
func (s *Session) Tick() error {
	if !s.running {
		return domain.ErrSessionFinished
	}
	s.presenter.OnTick(s.readout())
	s.remaining--
	if s.remaining == 0 {
		s.presenter.OnTick(s.readout())
		s.finish(domain.OutcomeTimedOut)
	}
	return nil
}

// Submit records an answer to the current question and advances. An empty answer is
// not accepted and leaves the session untouched so the caller can prompt again.
func (s *Session) Submit(answer string) (accepted bool, err error) {
	if !s.running {
		return false, domain.ErrSessionFinished
	}
	if answer == "" {
		return false, nil
	}

	s.state = StateAdvancing
	q := s.questions[s.position]
	if q.IsCorrect(answer) {
		s.score++
	} else {
		s.missed = append(s.missed, domain.MissedAnswer{
			Number:        s.position + 1,
			Prompt:        q.Prompt(),
			ChosenAnswer:  answer,
			CorrectAnswer: q.CorrectAnswer(),
		})
	}
	s.position++

	if s.position == len(s.questions) {
		s.finish(domain.OutcomeCompleted)
	} else {
		s.present()
	}
	return true, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) QuizName() string { return s.quizName }

func (s *Session) State() State { return s.state }

func (s *Session) Running() bool { return s.running }

func (s *Session) Position() int { return s.position }

func (s *Session) Score() int { return s.score }

func (s *Session) Total() int { return len(s.questions) }

func (s *Session) RemainingSeconds() int { return s.remaining }

// Missed returns a copy of the wrong answers recorded so far.
func (s *Session) Missed() []domain.MissedAnswer {
	out := make([]domain.MissedAnswer, len(s.missed))
	copy(out, s.missed)
	return out
}

// Result returns the final result once the session has terminated.
func (s *Session) Result() (domain.Result, bool) {
	if s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}

// CurrentQuestion returns the render payload of the question awaiting an answer.
func (s *Session) CurrentQuestion() (domain.QuestionView, bool) {
	if !s.running {
		return domain.QuestionView{}, false
	}
	return s.view(), true
}

func (s *Session) present() {
	s.state = StatePresenting
	s.presenter.OnQuestion(s.view())
	s.state = StateAwaitingAnswer
}

func (s *Session) view() domain.QuestionView {
	q := s.questions[s.position]
	return domain.QuestionView{
		Number:  s.position + 1,
		Total:   len(s.questions),
		Prompt:  q.Prompt(),
		Choices: q.Choices(),
	}
}

func (s *Session) readout() domain.TickReadout {
	total := len(s.questions)
	left := total - s.position
	perQuestion := 0
	if left > 0 {
		perQuestion = s.remaining / left
	}
	return domain.TickReadout{
		MinutesRemaining:            s.remaining / 60,
		SecondsRemaining:            s.remaining % 60,
		QuestionNumber:              s.position + 1,
		TotalQuestions:              total,
		QuestionsRemaining:          left,
		SecondsPerRemainingQuestion: perQuestion,
	}
}

// finish computes the result; it runs at most once per session.
func (s *Session) finish(outcome domain.Outcome) {
	if !s.running {
		return
	}
	s.running = false
	if outcome == domain.OutcomeTimedOut {
		s.state = StateTimedOut
	} else {
		s.state = StateCompleted
	}

	total := len(s.questions)
	result := domain.Result{
		SessionID:  s.id,
		QuizName:   s.quizName,
		Outcome:    outcome,
		Score:      s.score,
		Total:      total,
		Percentage: float64(s.score) / float64(total) * 100,
		Missed:     s.Missed(),
		FinishedAt: s.now(),
	}
	s.result = &result
	s.presenter.OnResult(result)
}

type nopPresenter struct{}

func (nopPresenter) OnQuestion(domain.QuestionView) {}
func (nopPresenter) OnTick(domain.TickReadout)      {}
func (nopPresenter) OnResult(domain.Result)         {}
