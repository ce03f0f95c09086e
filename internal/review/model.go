// Package review owns the session lifecycle: selecting words to practice,
// issuing questions, collecting answers and folding results back into the
// scheduler.
package review

import (
	"time"

	"github.com/t-yamaguchi/revoca/internal/question"
)

// Status is the lifecycle state of a session. There are only two: an
// abandoned session stays in progress indefinitely.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Mode selects which words a session practices.
type Mode string

const (
	// ModeDue reviews words whose next review time has passed.
	ModeDue Mode = "due"
	// ModeNew introduces words that have never been recalled successfully.
	ModeNew Mode = "new"
)

// Session is one practice run.
type Session struct {
	ID             int64      `db:"id"`
	OwnerID        int64      `db:"owner_id"`
	Status         Status     `db:"status"`
	TotalQuestions int        `db:"total_questions"`
	CorrectCount   int        `db:"correct_count"`
	StartedAt      time.Time  `db:"started_at"`
	CompletedAt    *time.Time `db:"completed_at"`
}

// View is a session together with its issued questions, in presentation
// order. The question list is fixed at creation time and never recomputed.
type View struct {
	Session   Session
	Questions []question.Instance
}

// Telemetry carries the answer metadata used for quality derivation.
type Telemetry struct {
	TimeSpentMs       int64
	AnswerChangeCount int
}

// SubmitResult is the immediate feedback for one answer.
type SubmitResult struct {
	IsCorrect     bool
	CorrectAnswer string
	Explanation   string
}

// Summary aggregates a completed session.
type Summary struct {
	TotalQuestions int
	CorrectCount   int
	Accuracy       float64
	CompletedAt    time.Time
}
