package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
)

var (
	errTimeUp      = errors.New("time is up")
	errInputClosed = errors.New("input closed before the quiz finished")
)

type terminalOptions struct {
	catalog string
	quiz    string
	timed   bool
	seconds int
}

// NewTakeCmd runs a quiz from a catalog file in the terminal.
func NewTakeCmd(configPath *string) *cobra.Command {
	opts := &terminalOptions{}
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadTerminal(cmd.Context(), *configPath, opts)
			if err != nil {
				return err
			}
			return runTake(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), settings, opts.timed)
		},
	}
	addTerminalFlags(cmd, opts)
	cmd.Flags().BoolVar(&opts.timed, "timed", false, "run under the shared countdown")
	return cmd
}

func addTerminalFlags(cmd *cobra.Command, opts *terminalOptions) {
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "quiz catalog YAML (defaults to quiz.catalogFile)")
	cmd.Flags().StringVar(&opts.quiz, "quiz", "", "quiz name (defaults to the first in the catalog)")
	cmd.Flags().IntVar(&opts.seconds, "seconds", 0, "seconds per question for timed runs")
}

// terminal holds what a terminal command needs once the catalog is imported.
type terminal struct {
	service      *app.QuizService
	quizName     string
	tickInterval time.Duration
	seconds      int
}

func loadTerminal(ctx context.Context, configPath string, opts *terminalOptions) (terminal, error) {
	cfg, err := config.Load(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return terminal{}, err
	}

	catalogPath := opts.catalog
	if catalogPath == "" {
		catalogPath = cfg.Quiz.CatalogFile
	}
	if catalogPath == "" {
		return terminal{}, fmt.Errorf("no catalog: pass --catalog or set quiz.catalogFile")
	}
	seconds := opts.seconds
	if seconds <= 0 {
		seconds = cfg.Quiz.SecondsPerQuestion
	}
	if seconds <= 0 {
		seconds = app.DefaultSecondsPerQuestion
	}

	service := app.NewQuizService(app.NewRegistry(), memory.NewSessionStore(),
		app.WithCatalog(file.NewCatalogLoader(catalogPath)),
		app.WithSessionBudget(seconds),
	)
	if _, err := service.ImportCatalog(ctx); err != nil {
		return terminal{}, err
	}

	name := opts.quiz
	if name == "" {
		if names := service.QuizNames(); len(names) > 0 {
			name = names[0]
		}
	}
	return terminal{
		service:      service,
		quizName:     name,
		tickInterval: config.Duration(cfg.Quiz.TickInterval, time.Second),
		seconds:      seconds,
	}, nil
}

func runTake(ctx context.Context, in io.Reader, rawOut io.Writer, t terminal, timed bool) error {
	out := &syncWriter{w: rawOut}
	if t.quizName == "" {
		fmt.Fprintln(out, "No quiz available")
		return nil
	}
	quiz, err := t.service.Quiz(t.quizName)
	if err != nil {
		return err
	}
	items := quiz.Questions()
	if len(items) == 0 {
		fmt.Fprintln(out, "No quiz available")
		return nil
	}

	presenter := &terminalPresenter{out: out, questions: make(chan domain.QuestionView, 1)}
	session, err := app.NewSession("terminal", quiz, presenter, app.WithSecondsPerQuestion(t.seconds))
	if err != nil {
		return err
	}
	var ticker app.Ticker = idleTicker{}
	if timed {
		ticker = app.NewTicker(t.tickInterval)
		fmt.Fprintf(out, "You have %d seconds for %d questions.\n", t.seconds*len(items), len(items))
	}
	runner := app.NewRunner(session, ticker)

	lines := make(chan string)
	go scanLines(in, lines, runner.Done())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	g.Go(func() error {
		for {
			select {
			case view := <-presenter.questions:
				printQuestion(out, view)
				choice, err := readChoice(gctx, out, lines, view, runner.Done())
				if errors.Is(err, errTimeUp) {
					return nil
				}
				if err != nil {
					return err
				}
				correct := items[view.Number-1].IsCorrect(choice)
				if _, err := runner.Submit(gctx, choice); err != nil {
					if errors.Is(err, domain.ErrSessionFinished) {
						return nil
					}
					return err
				}
				if correct {
					fmt.Fprintln(out, "Correct!")
				} else {
					fmt.Fprintln(out, "Incorrect!")
				}
			case <-runner.Done():
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}

	result, ok := runner.Result()
	if !ok {
		return domain.ErrSessionFinished
	}
	printSummary(out, result)
	return nil
}

func scanLines(in io.Reader, lines chan<- string, done <-chan struct{}) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-done:
			return
		}
	}
}

// readChoice prompts until a valid 1-based choice number arrives and returns that choice.
func readChoice(ctx context.Context, out io.Writer, lines <-chan string, view domain.QuestionView, done <-chan struct{}) (string, error) {
	for {
		fmt.Fprint(out, "Your answer: ")
		select {
		case line, ok := <-lines:
			if !ok {
				return "", errInputClosed
			}
			n, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				fmt.Fprintln(out, "Please enter a valid number")
				continue
			}
			if n < 1 || n > len(view.Choices) {
				fmt.Fprintf(out, "Please enter a number between 1 and %d\n", len(view.Choices))
				continue
			}
			return view.Choices[n-1], nil
		case <-done:
			return "", errTimeUp
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func printQuestion(out io.Writer, view domain.QuestionView) {
	fmt.Fprintf(out, "%d: %s\n", view.Number, view.Prompt)
	for j, choice := range view.Choices {
		fmt.Fprintf(out, "%d. %s\n", j+1, choice)
	}
}

func printSummary(out io.Writer, result domain.Result) {
	fmt.Fprintf(out, "Final Percentage: %s %%\n", app.FormatPercentage(result.Percentage))
	if len(result.Missed) == 0 {
		return
	}
	fmt.Fprintln(out, "Incorrect answers:")
	for _, m := range result.Missed {
		fmt.Fprintf(out, "Q%d: %s\n", m.Number, m.Prompt)
		fmt.Fprintf(out, "Your answer: %s\n", m.ChosenAnswer)
		fmt.Fprintf(out, "Correct answer: %s\n", m.CorrectAnswer)
	}
}

// terminalPresenter hands questions to the prompt loop and announces a time-out.
type terminalPresenter struct {
	out       io.Writer
	questions chan domain.QuestionView
}

func (p *terminalPresenter) OnQuestion(view domain.QuestionView) {
	p.questions <- view
}

func (p *terminalPresenter) OnTick(domain.TickReadout) {}

func (p *terminalPresenter) OnResult(result domain.Result) {
	if result.Outcome == domain.OutcomeTimedOut {
		fmt.Fprintln(p.out, "\nTime's up!")
	}
}

// idleTicker never fires; untimed runs only advance on answers.
type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }

func (idleTicker) Stop() {}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
