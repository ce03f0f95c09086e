// Package testutil provides shared test helpers for config files and word
// fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/t-yamaguchi/revoca/internal/word"
)

// SetupTestConfig creates a minimal config file for testing and returns its
// path.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := `database:
  host: localhost
  port: 3306
  database: revoca_test
  username: revoca
openai:
  model: gpt-4o-mini
review:
  max_words: 20
  questions_per_word: 2
`

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// WordOption configures optional fields when creating a word fixture.
type WordOption func(*word.Word)

// WithSchedule sets the scheduler fields of the fixture.
func WithSchedule(easinessFactor float64, intervalDays, repetitions int, nextReviewAt time.Time) WordOption {
	return func(w *word.Word) {
		w.EasinessFactor = easinessFactor
		w.IntervalDays = intervalDays
		w.Repetitions = repetitions
		w.NextReviewAt = nextReviewAt
	}
}

// WithMeaning appends a definition to the fixture.
func WithMeaning(definition string) WordOption {
	return func(w *word.Word) {
		w.Meanings = append(w.Meanings, word.Meaning{
			WordID:     w.ID,
			Definition: definition,
		})
	}
}

// WithContext appends an example sentence to the fixture.
func WithContext(sentence string) WordOption {
	return func(w *word.Word) {
		w.Contexts = append(w.Contexts, word.ContextSentence{
			WordID:   w.ID,
			Sentence: sentence,
		})
	}
}

// NewWord creates a content word fixture that is due immediately. The default
// meaning is derived from the text so that generated questions stay distinct.
func NewWord(id int64, text string, opts ...WordOption) word.Word {
	w := word.Word{
		ID:             id,
		OwnerID:        1,
		Text:           text,
		WordType:       word.TypeContent,
		EasinessFactor: 2.5,
		NextReviewAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Meanings: []word.Meaning{
			{WordID: id, Definition: fmt.Sprintf("meaning of %s", text)},
		},
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}
