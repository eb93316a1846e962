package domain_test

import (
	"errors"
	"testing"

	"timed-quiz-service/internal/domain"
)

func TestQuizAddQuestionKeepsOrder(t *testing.T) {
	quiz := domain.NewQuiz("Letters")
	for _, prompt := range []string{"first", "second", "third"} {
		item, err := domain.NewQuestionItem(prompt, []string{"A", "B"}, "A")
		if err != nil {
			t.Fatalf("new question: %v", err)
		}
		if err := quiz.AddQuestion(item); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}
	questions := quiz.Questions()
	if len(questions) != 3 || quiz.Len() != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if questions[0].Prompt() != "first" || questions[2].Prompt() != "third" {
		t.Fatalf("order not preserved: %q .. %q", questions[0].Prompt(), questions[2].Prompt())
	}
}

func TestQuizRejectsUnvalidatedItems(t *testing.T) {
	quiz := domain.NewQuiz("Letters")
	if err := quiz.AddQuestion(nil); !errors.Is(err, domain.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch for nil, got %v", err)
	}
	if err := quiz.AddQuestion(&domain.QuestionItem{}); !errors.Is(err, domain.ErrTypeMismatch) {
		t.Fatalf("expected type mismatch for zero value, got %v", err)
	}
	if quiz.Len() != 0 {
		t.Fatalf("expected empty quiz, got %d", quiz.Len())
	}
}

func TestQuizQuestionsAreCopies(t *testing.T) {
	quiz := domain.NewQuiz("Letters")
	item, _ := domain.NewQuestionItem("Q", []string{"A", "B"}, "A")
	_ = quiz.AddQuestion(item)

	listed := quiz.Questions()[0]
	_ = listed.SetPrompt("changed")
	if quiz.Questions()[0].Prompt() != "Q" {
		t.Fatalf("listing leaked a mutable reference")
	}
}

func TestQuizUpdateQuestionIsAtomic(t *testing.T) {
	quiz := domain.NewQuiz("Letters")
	item, _ := domain.NewQuestionItem("Q", []string{"A", "B"}, "A")
	_ = quiz.AddQuestion(item)

	err := quiz.UpdateQuestion(0, func(q *domain.QuestionItem) error {
		if err := q.SetPrompt("new prompt"); err != nil {
			return err
		}
		return q.SetCorrectAnswer("missing")
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if quiz.Questions()[0].Prompt() != "Q" {
		t.Fatalf("expected no partial update, got %q", quiz.Questions()[0].Prompt())
	}

	if err := quiz.UpdateQuestion(0, func(q *domain.QuestionItem) error { return q.SetCorrectAnswer("B") }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if quiz.Questions()[0].CorrectAnswer() != "B" {
		t.Fatalf("expected committed update")
	}
	if err := quiz.UpdateQuestion(5, func(*domain.QuestionItem) error { return nil }); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected index error, got %v", err)
	}
}

func TestQuestionDraftAuthoringRules(t *testing.T) {
	valid := domain.QuestionDraft{Prompt: "2 + 2?", Choices: []string{"3", "4", "5", "6"}, Correct: 2}
	if err := valid.ValidateAuthoring(); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
	item, err := valid.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if item.CorrectAnswer() != "4" {
		t.Fatalf("expected correct answer 4, got %q", item.CorrectAnswer())
	}

	bad := []domain.QuestionDraft{
		{Prompt: "", Choices: valid.Choices, Correct: 1},
		{Prompt: "Q", Choices: []string{"1", "2", "3"}, Correct: 1},
		{Prompt: "Q", Choices: []string{"1", "2", "", "4"}, Correct: 1},
		{Prompt: "Q", Choices: valid.Choices, Correct: 0},
		{Prompt: "Q", Choices: valid.Choices, Correct: 5},
	}
	for i, d := range bad {
		if err := d.ValidateAuthoring(); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("draft %d: expected validation error, got %v", i, err)
		}
	}
}

func TestQuizSpecBuildRejectsWholeQuiz(t *testing.T) {
	spec := domain.QuizSpec{
		Name: "Mixed",
		Questions: []domain.QuestionDraft{
			{Prompt: "ok", Choices: []string{"A", "B"}, Correct: 1},
			{Prompt: "bad", Choices: []string{"A", "B"}, Correct: 3},
		},
	}
	if _, err := spec.Build(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	spec.Questions = spec.Questions[:1]
	quiz, err := spec.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if quiz.Name() != "Mixed" || quiz.Len() != 1 {
		t.Fatalf("unexpected quiz %q with %d questions", quiz.Name(), quiz.Len())
	}
}
