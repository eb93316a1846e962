package app

import (
	"fmt"
	"strings"

	"timed-quiz-service/internal/domain"
)

// RenderPreview lists every question with numbered choices and its correct answer.
func RenderPreview(quiz *domain.Quiz) string {
	questions := quiz.Questions()
	if len(questions) == 0 {
		return "No questions in this quiz yet"
	}

	lines := make([]string, 0, len(questions)*6)
	for i, q := range questions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, q.Prompt()))
		for j, c := range q.Choices() {
			lines = append(lines, fmt.Sprintf("%d) %s", j+1, c))
		}
		lines = append(lines, "Correct: "+q.CorrectAnswer())
	}
	return strings.Join(lines, "\n")
}

// RenderResult formats a result summary: score line then the missed answers.
func RenderResult(result domain.Result) string {
	lines := []string{
		"Quiz Completed!",
		fmt.Sprintf("Score: %d/%d (%s%%)", result.Score, result.Total, FormatPercentage(result.Percentage)),
	}
	if len(result.Missed) > 0 {
		lines = append(lines, "Incorrect answers:")
		for _, m := range result.Missed {
			lines = append(lines,
				fmt.Sprintf("Q%d: %s", m.Number, m.Prompt),
				"Your answer: "+m.ChosenAnswer,
				"Correct answer: "+m.CorrectAnswer,
			)
		}
	}
	return strings.Join(lines, "\n")
}

// FormatPercentage prints a percentage with one decimal when whole and up to two otherwise.
func FormatPercentage(p float64) string {
	s := fmt.Sprintf("%.2f", p)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
