package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"timed-quiz-service/internal/domain"
)

// SessionRepository tracks live sessions (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Save(live *LiveSession)
	Get(id string) (*LiveSession, bool)
	Delete(id string)
	List() []*LiveSession
}

// ResultPublisher receives every terminal session result.
type ResultPublisher interface {
	Publish(ctx context.Context, result domain.Result) error
}

// CatalogLoader reads quiz definitions from a read-only source (YAML file, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.QuizSpec, error)
}

// ImportReport summarizes a catalog import.
type ImportReport struct {
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped"`
	Failed   []string `json:"failed"`
}

const publishTimeout = 5 * time.Second

// QuizService contains the authoring and quiz-taking use cases.
type QuizService struct {
	registry   *Registry
	sessions   SessionRepository
	publishers []ResultPublisher
	catalog    CatalogLoader

	secondsPerQuestion int
	tickInterval       time.Duration
	newTicker          func(time.Duration) Ticker

	sf singleflight.Group
}

// Option configures a QuizService.
type Option func(*QuizService)

func WithPublishers(publishers ...ResultPublisher) Option {
	return func(s *QuizService) { s.publishers = append(s.publishers, publishers...) }
}

func WithCatalog(loader CatalogLoader) Option {
	return func(s *QuizService) { s.catalog = loader }
}

func WithSessionBudget(secondsPerQuestion int) Option {
	return func(s *QuizService) { s.secondsPerQuestion = secondsPerQuestion }
}

// WithTicker replaces the tick source; tests use it to drive the countdown by hand.
func WithTicker(interval time.Duration, newTicker func(time.Duration) Ticker) Option {
	return func(s *QuizService) {
		if interval > 0 {
			s.tickInterval = interval
		}
		if newTicker != nil {
			s.newTicker = newTicker
		}
	}
}

func NewQuizService(registry *Registry, sessions SessionRepository, opts ...Option) *QuizService {
	s := &QuizService{
		registry:           registry,
		sessions:           sessions,
		secondsPerQuestion: DefaultSecondsPerQuestion,
		tickInterval:       time.Second,
		newTicker:          NewTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *QuizService) CreateQuiz(name string) (*domain.Quiz, error) {
	return s.registry.Create(name)
}

func (s *QuizService) Quiz(name string) (*domain.Quiz, error) {
	return s.registry.Get(name)
}

func (s *QuizService) QuizNames() []string {
	return s.registry.Names()
}

// AddQuestion validates authoring input and appends the question to the named quiz.
func (s *QuizService) AddQuestion(quizName string, draft domain.QuestionDraft) error {
	quiz, err := s.registry.Get(quizName)
	if err != nil {
		return err
	}
	if err := draft.ValidateAuthoring(); err != nil {
		return err
	}
	item, err := draft.Build()
	if err != nil {
		return err
	}
	return quiz.AddQuestion(item)
}

// ChoiceEdit replaces the choice at a 1-based number.
type ChoiceEdit struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// QuestionEdit lists the fields to replace on one question; nil fields are left alone.
type QuestionEdit struct {
	Prompt        *string      `json:"prompt,omitempty"`
	Choices       []ChoiceEdit `json:"choices,omitempty"`
	CorrectAnswer *string      `json:"correctAnswer,omitempty"`
}

// EditQuestion applies edit to the question at a 1-based number. Either every change is
// committed or none is.
func (s *QuizService) EditQuestion(quizName string, number int, edit QuestionEdit) error {
	quiz, err := s.registry.Get(quizName)
	if err != nil {
		return err
	}
	return quiz.UpdateQuestion(number-1, func(item *domain.QuestionItem) error {
		if edit.Prompt != nil {
			if err := item.SetPrompt(*edit.Prompt); err != nil {
				return err
			}
		}
		// Move the correct answer first when it already points at an existing choice,
		// so the old slot may then be rewritten.
		correctApplied := false
		if edit.CorrectAnswer != nil && item.SetCorrectAnswer(*edit.CorrectAnswer) == nil {
			correctApplied = true
		}
		for _, c := range edit.Choices {
			if err := item.SetChoice(c.Number-1, c.Text); err != nil {
				return err
			}
		}
		if edit.CorrectAnswer != nil && !correctApplied {
			return item.SetCorrectAnswer(*edit.CorrectAnswer)
		}
		return nil
	})
}

func (s *QuizService) Preview(quizName string) (string, error) {
	quiz, err := s.registry.Get(quizName)
	if err != nil {
		return "", err
	}
	return RenderPreview(quiz), nil
}

// LiveSession is a running session registered with the service.
type LiveSession struct {
	ID        string
	QuizName  string
	StartedAt time.Time
	// Budget is the wall-clock length of the countdown at the configured tick interval.
	Budget time.Duration

	runner   *Runner
	cancel   context.CancelFunc
	finished chan struct{}
}

// Submit delivers an answer to the session's event loop.
func (l *LiveSession) Submit(ctx context.Context, answer string) (bool, error) {
	return l.runner.Submit(ctx, answer)
}

// Abandon disposes of the session without a result.
func (l *LiveSession) Abandon() {
	l.cancel()
}

// Done is closed once the session has terminated or been abandoned and its result, if
// any, has been published.
func (l *LiveSession) Done() <-chan struct{} {
	return l.finished
}

func (l *LiveSession) Result() (domain.Result, bool) {
	return l.runner.Result()
}

// StartSession begins a timed run over the named quiz. A presenter implementing
// StartObserver learns the session id first; it then receives the first question before
// StartSession returns, and later events arrive from the session goroutine.
func (s *QuizService) StartSession(ctx context.Context, quizName string, presenter Presenter) (*LiveSession, error) {
	quiz, err := s.registry.Get(quizName)
	if err != nil {
		return nil, err
	}

	if quiz.Len() == 0 {
		return nil, domain.ErrEmptyQuiz
	}

	id := uuid.NewString()
	if observer, ok := presenter.(StartObserver); ok {
		observer.OnStart(id, quizName)
	}
	session, err := NewSession(id, quiz, presenter, WithSecondsPerQuestion(s.secondsPerQuestion))
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	live := &LiveSession{
		ID:        id,
		QuizName:  quizName,
		StartedAt: time.Now(),
		Budget:    time.Duration(session.RemainingSeconds()) * s.tickInterval,
		runner:    NewRunner(session, s.newTicker(s.tickInterval)),
		cancel:    cancel,
		finished:  make(chan struct{}),
	}
	s.sessions.Save(live)

	go func() {
		defer close(live.finished)
		defer s.sessions.Delete(id)
		defer cancel()

		if err := live.runner.Run(runCtx); err != nil {
			log.Printf("session %s abandoned: %v", id, err)
			return
		}
		if result, ok := live.runner.Result(); ok {
			s.publish(context.WithoutCancel(ctx), result)
		}
	}()
	return live, nil
}

// Session looks up a live session by id.
func (s *QuizService) Session(id string) (*LiveSession, error) {
	live, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return live, nil
}

func (s *QuizService) ActiveSessions() []*LiveSession {
	return s.sessions.List()
}

// AbandonSession cancels a live session.
func (s *QuizService) AbandonSession(id string) error {
	live, err := s.Session(id)
	if err != nil {
		return err
	}
	live.Abandon()
	return nil
}

func (s *QuizService) publish(ctx context.Context, result domain.Result) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	for _, p := range s.publishers {
		if err := p.Publish(ctx, result); err != nil {
			log.Printf("publish result for session %s: %v", result.SessionID, err)
		}
	}
}

// ImportCatalog loads the configured catalog and registers every quiz not yet present.
// Concurrent calls share one load.
func (s *QuizService) ImportCatalog(ctx context.Context) (ImportReport, error) {
	if s.catalog == nil {
		return ImportReport{}, errors.New("catalog not configured")
	}
	v, err, _ := s.sf.Do("catalog", func() (interface{}, error) {
		specs, err := s.catalog.LoadCatalog(ctx)
		if err != nil {
			return ImportReport{}, fmt.Errorf("load catalog: %w", err)
		}
		return s.ImportSpecs(specs), nil
	})
	if err != nil {
		return ImportReport{}, err
	}
	return v.(ImportReport), nil
}

// ImportSpecs registers the given quizzes. Existing names are skipped and a quiz with any
// invalid question is rejected whole.
func (s *QuizService) ImportSpecs(specs []domain.QuizSpec) ImportReport {
	report := ImportReport{}
	for _, spec := range specs {
		quiz, err := spec.Build()
		if err != nil {
			log.Printf("catalog quiz %q rejected: %v", spec.Name, err)
			report.Failed = append(report.Failed, spec.Name)
			continue
		}
		if err := s.registry.Add(quiz); err != nil {
			if errors.Is(err, domain.ErrDuplicateName) {
				report.Skipped = append(report.Skipped, spec.Name)
				continue
			}
			report.Failed = append(report.Failed, spec.Name)
			continue
		}
		report.Imported = append(report.Imported, spec.Name)
	}
	return report
}
