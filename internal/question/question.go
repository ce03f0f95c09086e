// Package question generates question snapshots for vocabulary words.
// A snapshot is immutable once created so that review history stays
// reproducible even when the underlying word data changes later.
package question

import (
	"context"
	"fmt"
	"time"

	"github.com/t-yamaguchi/revoca/internal/word"
)

// Type enumerates the closed set of question variants.
type Type string

const (
	TypeMeaningRecall   Type = "meaning_recall"    // show definition, type the word
	TypeMeaningFromWord Type = "meaning_from_word" // show word, type the definition
	TypeFillBlank       Type = "fill_blank"
	TypeMultipleChoice  Type = "multiple_choice" // fill the blank from 4 options
	TypeDictation       Type = "dictation"
	TypeSynonymMCQ      Type = "synonym_mcq"
	TypeDefinitionMCQ   Type = "definition_mcq"
	TypeUsageMCQ        Type = "usage_mcq"
)

// Difficulty tags a generated question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyForWord derives the generation difficulty from the word's
// scheduler state: unseen words get easy questions, consolidated ones hard.
func DifficultyForWord(w *word.Word) Difficulty {
	switch {
	case w.Repetitions == 0:
		return DifficultyEasy
	case w.Repetitions < 3:
		return DifficultyMedium
	}
	return DifficultyHard
}

// Content keys. The content bag is open: strategies may add fields, but
// question_text and correct_answer are mandatory and consumed by evaluation.
const (
	ContentQuestionText    = "question_text"
	ContentCorrectAnswer   = "correct_answer"
	ContentOptions         = "options"
	ContentContextSentence = "context_sentence"
	ContentExplanation     = "explanation"
	ContentAudioURL        = "audio_url"
	ContentWord            = "word"
	ContentConfusionGroup  = "confusion_pair_group"
)

// Content is the open key/value snapshot of a question.
type Content map[string]any

// QuestionText returns the mandatory prompt text.
func (c Content) QuestionText() string { return c.stringValue(ContentQuestionText) }

// CorrectAnswer returns the mandatory expected answer.
func (c Content) CorrectAnswer() string { return c.stringValue(ContentCorrectAnswer) }

// Explanation returns the optional answer explanation.
func (c Content) Explanation() string { return c.stringValue(ContentExplanation) }

// ContextSentence returns the optional blanked example sentence.
func (c Content) ContextSentence() string { return c.stringValue(ContentContextSentence) }

// Options returns the MCQ option set, or nil for open-answer questions.
func (c Content) Options() []string {
	switch v := c[ContentOptions].(type) {
	case []string:
		return v
	case []any:
		options := make([]string, 0, len(v))
		for _, o := range v {
			if s, ok := o.(string); ok {
				options = append(options, s)
			}
		}
		return options
	}
	return nil
}

func (c Content) stringValue(key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}

// Snapshot is one generated question for a word.
type Snapshot struct {
	Type       Type
	Difficulty Difficulty
	Content    Content
}

// Instance is a persisted snapshot, reusable across sessions until retired.
type Instance struct {
	ID                int64      `db:"id"`
	InstanceID        string     `db:"instance_id"`
	WordID            int64      `db:"word_id"`
	SessionID         *int64     `db:"session_id"`
	QuestionType      Type       `db:"question_type"`
	Difficulty        Difficulty `db:"difficulty"`
	Content           Content    `db:"-"`
	UsageCount        int        `db:"usage_count"`
	UserAnswer        *string    `db:"user_answer"`
	IsCorrect         *bool      `db:"is_correct"`
	TimeSpentMs       *int64     `db:"time_spent_ms"`
	AnswerChangeCount *int       `db:"answer_change_count"`
	CreatedAt         time.Time  `db:"created_at"`
}

// Answered reports whether the instance has reached its terminal state.
func (i *Instance) Answered() bool {
	return i.IsCorrect != nil
}

// GenerationError wraps any failure of a question-producing capability.
// Timeouts, malformed output and provider errors are treated uniformly.
type GenerationError struct {
	WordID int64
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("question generation failed for word %d: %v", e.WordID, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

//go:generate mockgen -source=question.go -destination=../mocks/question/mock_generator.go -package=mock_question

// Generator produces one question snapshot for a word. Implementations may be
// local and pure or backed by a network capability; either way all failures
// surface as a *GenerationError.
type Generator interface {
	Synthesize(ctx context.Context, w *word.Word, difficulty Difficulty, distractors []word.Word) (Snapshot, error)
}
