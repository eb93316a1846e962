package domain

import "time"

// QuestionView is the render payload for the question currently presented.
type QuestionView struct {
	Number  int      `json:"number"`
	Total   int      `json:"total"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

// TickReadout is the countdown readout emitted once per tick.
// SecondsPerRemainingQuestion is informational only.
type TickReadout struct {
	MinutesRemaining            int `json:"minutesRemaining"`
	SecondsRemaining            int `json:"secondsRemaining"`
	QuestionNumber              int `json:"questionNumber"`
	TotalQuestions              int `json:"totalQuestions"`
	QuestionsRemaining          int `json:"questionsRemaining"`
	SecondsPerRemainingQuestion int `json:"secondsPerRemainingQuestion"`
}

// MissedAnswer records a wrong answer for end-of-session review.
type MissedAnswer struct {
	Number        int    `json:"number"`
	Prompt        string `json:"prompt"`
	ChosenAnswer  string `json:"chosenAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
}

// Outcome tells how a session terminated.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeTimedOut  Outcome = "timed_out"
)

// Result is the scored summary produced once per session.
type Result struct {
	SessionID  string         `json:"sessionId"`
	QuizName   string         `json:"quizName"`
	Outcome    Outcome        `json:"outcome"`
	Score      int            `json:"score"`
	Total      int            `json:"total"`
	Percentage float64        `json:"percentage"`
	Missed     []MissedAnswer `json:"missed"`
	FinishedAt time.Time      `json:"finishedAt"`
}
