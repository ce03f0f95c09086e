package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	reviewTime := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		state           State
		quality         Quality
		elapsedSeconds  float64
		wantEF          float64
		wantInterval    int
		wantRepetitions int
	}{
		{
			name:            "first good review",
			state:           NewState(reviewTime),
			quality:         QualityGood,
			elapsedSeconds:  8,
			wantEF:          2.5,
			wantInterval:    1,
			wantRepetitions: 1,
		},
		{
			name: "second good review",
			state: State{
				EasinessFactor: 2.5, IntervalDays: 1, Repetitions: 1,
			},
			quality:         QualityGood,
			elapsedSeconds:  8,
			wantEF:          2.5,
			wantInterval:    6,
			wantRepetitions: 2,
		},
		{
			name: "third review grows by EF",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 6, Repetitions: 2,
			},
			quality:         QualityGood,
			elapsedSeconds:  8,
			wantEF:          2.0,
			wantInterval:    12,
			wantRepetitions: 3,
		},
		{
			name: "easy applies 1.3 multiplier and EF bonus",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 10, Repetitions: 3,
			},
			quality:         QualityEasy,
			elapsedSeconds:  8,
			wantEF:          2.15,
			wantInterval:    28, // round(10 * 2.15 * 1.3)
			wantRepetitions: 4,
		},
		{
			name: "again resets everything",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 30, Repetitions: 5,
			},
			quality:         QualityAgain,
			elapsedSeconds:  8,
			wantEF:          1.8,
			wantInterval:    0,
			wantRepetitions: 0,
		},
		{
			name: "hard resets the streak and schedules an immediate retry",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 9, Repetitions: 4,
			},
			quality:         QualityHard,
			elapsedSeconds:  8,
			wantEF:          1.85,
			wantInterval:    0,
			wantRepetitions: 0,
		},
		{
			name: "fast good answer is promoted to easy",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 10, Repetitions: 3,
			},
			quality:         QualityGood,
			elapsedSeconds:  3,
			wantEF:          2.15,
			wantInterval:    28,
			wantRepetitions: 4,
		},
		{
			name: "slow good answer is demoted to hard",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 10, Repetitions: 3,
			},
			quality:         QualityGood,
			elapsedSeconds:  20,
			wantEF:          1.85,
			wantInterval:    0,
			wantRepetitions: 0,
		},
		{
			name: "slow easy answer is demoted to good",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 10, Repetitions: 3,
			},
			quality:         QualityEasy,
			elapsedSeconds:  20,
			wantEF:          2.0,
			wantInterval:    20,
			wantRepetitions: 4,
		},
		{
			name: "unknown elapsed time skips speed adjustment",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 10, Repetitions: 3,
			},
			quality:         QualityGood,
			elapsedSeconds:  0,
			wantEF:          2.0,
			wantInterval:    20,
			wantRepetitions: 4,
		},
		{
			name: "EF never drops below minimum",
			state: State{
				EasinessFactor: 1.35, IntervalDays: 1, Repetitions: 1,
			},
			quality:         QualityAgain,
			elapsedSeconds:  8,
			wantEF:          MinEasinessFactor,
			wantInterval:    0,
			wantRepetitions: 0,
		},
		{
			name: "EF never exceeds maximum",
			state: State{
				EasinessFactor: 2.45, IntervalDays: 6, Repetitions: 2,
			},
			quality:         QualityEasy,
			elapsedSeconds:  8,
			wantEF:          MaxEasinessFactor,
			wantInterval:    20, // round(6 * 2.5 * 1.3)
			wantRepetitions: 3,
		},
		{
			name: "out of range quality is clamped",
			state: State{
				EasinessFactor: 2.0, IntervalDays: 6, Repetitions: 2,
			},
			quality:         Quality(9),
			elapsedSeconds:  8,
			wantEF:          2.15,
			wantInterval:    17, // round(6 * 2.15 * 1.3)
			wantRepetitions: 3,
		},
		{
			name: "hard on a new word stays at zero interval",
			state: State{
				EasinessFactor: 2.5, IntervalDays: 0, Repetitions: 0,
			},
			quality:         QualityHard,
			elapsedSeconds:  8,
			wantEF:          2.35,
			wantInterval:    0,
			wantRepetitions: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(tt.state, tt.quality, tt.elapsedSeconds, reviewTime)

			assert.InDelta(t, tt.wantEF, got.EasinessFactor, 0.0001)
			assert.Equal(t, tt.wantInterval, got.IntervalDays)
			assert.Equal(t, tt.wantRepetitions, got.Repetitions)
			assert.Equal(t, reviewTime.AddDate(0, 0, tt.wantInterval), got.NextReviewAt)
			require.NotNil(t, got.LastReviewAt)
			assert.Equal(t, reviewTime, *got.LastReviewAt)
		})
	}
}

func TestTransition_ReviewScenario(t *testing.T) {
	// New word reviewed GOOD, GOOD, EASY at one-day spacing.
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	state := NewState(now)

	state = Transition(state, QualityGood, 8, now)
	assert.Equal(t, 1, state.IntervalDays)
	assert.Equal(t, 1, state.Repetitions)

	now = now.AddDate(0, 0, 1)
	state = Transition(state, QualityGood, 8, now)
	assert.Equal(t, 6, state.IntervalDays)
	assert.Equal(t, 2, state.Repetitions)

	now = now.AddDate(0, 0, 1)
	state = Transition(state, QualityEasy, 8, now)
	assert.Greater(t, state.IntervalDays, 6)
	assert.Equal(t, 3, state.Repetitions)
}

func TestTransition_LapseScenario(t *testing.T) {
	reviewTime := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	state := State{
		EasinessFactor: 2.0,
		IntervalDays:   30,
		Repetitions:    5,
		NextReviewAt:   reviewTime,
	}

	got := Transition(state, QualityAgain, 12, reviewTime)

	assert.Equal(t, 0, got.Repetitions)
	assert.Equal(t, 0, got.IntervalDays)
	assert.Equal(t, reviewTime, got.NextReviewAt)
}

func TestTransition_Deterministic(t *testing.T) {
	reviewTime := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	state := State{EasinessFactor: 2.1, IntervalDays: 12, Repetitions: 4}

	first := Transition(state, QualityGood, 7, reviewTime)
	second := Transition(state, QualityGood, 7, reviewTime)

	assert.Equal(t, first, second)
}

func TestTransition_EasyNeverShorterThanGood(t *testing.T) {
	reviewTime := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	states := []State{
		{EasinessFactor: 2.5, IntervalDays: 0, Repetitions: 0},
		{EasinessFactor: 2.5, IntervalDays: 1, Repetitions: 1},
		{EasinessFactor: 2.0, IntervalDays: 6, Repetitions: 2},
		{EasinessFactor: 1.7, IntervalDays: 15, Repetitions: 3},
		{EasinessFactor: 1.3, IntervalDays: 120, Repetitions: 9},
	}
	for _, state := range states {
		good := Transition(state, QualityGood, 8, reviewTime)
		easy := Transition(state, QualityEasy, 8, reviewTime)

		assert.GreaterOrEqual(t, easy.IntervalDays, good.IntervalDays)
		assert.GreaterOrEqual(t, easy.EasinessFactor, good.EasinessFactor)
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.True(t, IsDue(now.AddDate(0, 0, -1), now))
	assert.True(t, IsDue(now, now))
	assert.False(t, IsDue(now.AddDate(0, 0, 1), now))
}

func TestMemoryStrength(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  float64
		delta float64
	}{
		{
			name:  "no repetitions means no strength",
			state: State{EasinessFactor: 2.5, IntervalDays: 10, Repetitions: 0},
			want:  0,
		},
		{
			name:  "established word",
			state: State{EasinessFactor: 2.5, IntervalDays: 30, Repetitions: 5},
			want:  0.4293,
			delta: 0.001,
		},
		{
			name:  "long streak saturates at one",
			state: State{EasinessFactor: 2.5, IntervalDays: 365, Repetitions: 20},
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MemoryStrength(tt.state)
			if tt.delta > 0 {
				assert.InDelta(t, tt.want, got, tt.delta)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQualityFromResult(t *testing.T) {
	tests := []struct {
		name           string
		isCorrect      bool
		elapsedSeconds float64
		want           Quality
	}{
		{name: "incorrect is always again", isCorrect: false, elapsedSeconds: 3, want: QualityAgain},
		{name: "incorrect and slow is still again", isCorrect: false, elapsedSeconds: 30, want: QualityAgain},
		{name: "fast correct is easy", isCorrect: true, elapsedSeconds: 3, want: QualityEasy},
		{name: "slow correct is hard", isCorrect: true, elapsedSeconds: 18, want: QualityHard},
		{name: "ordinary correct is good", isCorrect: true, elapsedSeconds: 9, want: QualityGood},
		{name: "unknown elapsed time counts as fast", isCorrect: true, elapsedSeconds: 0, want: QualityEasy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualityFromResult(tt.isCorrect, tt.elapsedSeconds))
		})
	}
}
