// Package word provides the vocabulary domain model and its repository.
package word

import (
	"time"

	"github.com/t-yamaguchi/revoca/internal/srs"
)

// Type classifies a word for question-strategy selection.
type Type string

const (
	// TypeContent covers nouns, verbs, adjectives and other open-class words.
	TypeContent Type = "content_word"
	// TypeFunction covers prepositions, articles and other closed-class words.
	TypeFunction Type = "function_word"
)

// Valid reports whether the type is one of the known classifications.
func (t Type) Valid() bool {
	return t == TypeContent || t == TypeFunction
}

// Word is a vocabulary item under study, including its scheduler state.
type Word struct {
	ID             int64      `db:"id" yaml:"id"`
	OwnerID        int64      `db:"owner_id" yaml:"owner_id"`
	Text           string     `db:"text" yaml:"text"`
	WordType       Type       `db:"word_type" yaml:"word_type"`
	EasinessFactor float64    `db:"easiness_factor" yaml:"easiness_factor"`
	IntervalDays   int        `db:"interval_days" yaml:"interval_days"`
	Repetitions    int        `db:"repetitions" yaml:"repetitions"`
	NextReviewAt   time.Time  `db:"next_review_at" yaml:"next_review_at"`
	LastReviewAt   *time.Time `db:"last_review_at" yaml:"last_review_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" yaml:"updated_at"`

	// Relations are loaded explicitly by the repository, never lazily.
	Meanings []Meaning         `db:"-" yaml:"meanings,omitempty"`
	Contexts []ContextSentence `db:"-" yaml:"contexts,omitempty"`
	Audios   []Audio           `db:"-" yaml:"audios,omitempty"`
}

// Meaning is one definition of a word.
type Meaning struct {
	ID         int64  `db:"id" yaml:"id"`
	WordID     int64  `db:"word_id" yaml:"word_id"`
	Definition string `db:"definition" yaml:"definition"`
	Source     string `db:"source" yaml:"source,omitempty"`
}

// ContextSentence is an example sentence containing the word.
type ContextSentence struct {
	ID       int64  `db:"id" yaml:"id"`
	WordID   int64  `db:"word_id" yaml:"word_id"`
	Sentence string `db:"sentence" yaml:"sentence"`
}

// Audio is a pronunciation recording supplied by an external TTS pipeline.
type Audio struct {
	ID       int64  `db:"id" yaml:"id"`
	WordID   int64  `db:"word_id" yaml:"word_id"`
	AudioURL string `db:"audio_url" yaml:"audio_url"`
}

// SRSState extracts the scheduler state embedded in the word.
func (w *Word) SRSState() srs.State {
	return srs.State{
		EasinessFactor: w.EasinessFactor,
		IntervalDays:   w.IntervalDays,
		Repetitions:    w.Repetitions,
		NextReviewAt:   w.NextReviewAt,
		LastReviewAt:   w.LastReviewAt,
	}
}

// ApplySRSState writes a scheduler state back onto the word.
func (w *Word) ApplySRSState(state srs.State) {
	w.EasinessFactor = state.EasinessFactor
	w.IntervalDays = state.IntervalDays
	w.Repetitions = state.Repetitions
	w.NextReviewAt = state.NextReviewAt
	w.LastReviewAt = state.LastReviewAt
}

// FirstDefinition returns the primary definition, or "" if none is stored.
func (w *Word) FirstDefinition() string {
	if len(w.Meanings) == 0 {
		return ""
	}
	return w.Meanings[0].Definition
}

// FirstAudioURL returns the primary pronunciation URL, or "" if none is stored.
func (w *Word) FirstAudioURL() string {
	if len(w.Audios) == 0 {
		return ""
	}
	return w.Audios[0].AudioURL
}
