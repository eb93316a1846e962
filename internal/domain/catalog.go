package domain

import "fmt"

// AuthoringChoices is the number of choices the authoring form collects.
const AuthoringChoices = 4

// QuestionDraft is unvalidated question input with a 1-based correct choice.
type QuestionDraft struct {
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Choices []string `json:"choices" yaml:"choices"`
	Correct int      `json:"correct" yaml:"correct"`
}

// QuizSpec describes a quiz in a catalog source.
type QuizSpec struct {
	Name      string          `json:"name" yaml:"name"`
	Questions []QuestionDraft `json:"questions" yaml:"questions"`
}

// ValidateAuthoring applies the authoring form rules: a prompt, exactly four filled
// choices and a correct number between 1 and 4.
func (d QuestionDraft) ValidateAuthoring() error {
	if isBlank(d.Prompt) {
		return fmt.Errorf("%w: please enter a question", ErrValidation)
	}
	if len(d.Choices) != AuthoringChoices {
		return fmt.Errorf("%w: please fill all four choices", ErrValidation)
	}
	for _, c := range d.Choices {
		if isBlank(c) {
			return fmt.Errorf("%w: please fill all four choices", ErrValidation)
		}
	}
	if d.Correct < 1 || d.Correct > AuthoringChoices {
		return fmt.Errorf("%w: correct answer must be between 1 and 4", ErrValidation)
	}
	return nil
}

// Build resolves the correct number to its choice text and validates the question.
func (d QuestionDraft) Build() (*QuestionItem, error) {
	if d.Correct < 1 || d.Correct > len(d.Choices) {
		return nil, fmt.Errorf("%w: correct answer must be between 1 and %d", ErrValidation, len(d.Choices))
	}
	return NewQuestionItem(d.Prompt, d.Choices, d.Choices[d.Correct-1])
}

// Build validates every question of the spec and returns a populated quiz.
// A single invalid question rejects the whole quiz.
func (s QuizSpec) Build() (*Quiz, error) {
	if isBlank(s.Name) {
		return nil, fmt.Errorf("%w: quiz name must be non-empty", ErrValidation)
	}
	quiz := NewQuiz(s.Name)
	for i, draft := range s.Questions {
		item, err := draft.Build()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if err := quiz.AddQuestion(item); err != nil {
			return nil, err
		}
	}
	return quiz, nil
}
