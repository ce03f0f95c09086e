// Package srs implements the spaced-repetition scheduler, a modified SM-2
// state machine. Transitions are pure functions of the previous state, the
// review quality, and the review time, so they are trivially replayable and
// never touch a clock or the database themselves.
package srs

import (
	"math"
	"time"
)

const (
	DefaultEasinessFactor = 2.5
	MinEasinessFactor     = 1.3
	MaxEasinessFactor     = 2.5
)

const (
	easyIntervalMultiplier = 1.3
	goodIntervalMultiplier = 1.0
	hardIntervalMultiplier = 0.5
)

// State is the scheduler state embedded in every word under study.
type State struct {
	EasinessFactor float64
	IntervalDays   int
	Repetitions    int
	NextReviewAt   time.Time
	LastReviewAt   *time.Time
}

// NewState returns the state of a freshly added word, due immediately.
func NewState(now time.Time) State {
	return State{
		EasinessFactor: DefaultEasinessFactor,
		IntervalDays:   0,
		Repetitions:    0,
		NextReviewAt:   now,
	}
}

// Transition computes the state after one review. elapsedSeconds is the
// response time; pass 0 when it is unknown. The function never fails:
// out-of-range inputs are clamped so that a completed review always lands.
func Transition(state State, quality Quality, elapsedSeconds float64, reviewTime time.Time) State {
	quality = adjustForSpeed(clampQuality(quality), elapsedSeconds)

	ef := updateEasinessFactor(state.EasinessFactor, quality)

	repetitions := state.Repetitions + 1
	if quality < QualityGood {
		repetitions = 0
	}

	interval := nextInterval(state.IntervalDays, repetitions, ef, quality)

	reviewed := reviewTime
	return State{
		EasinessFactor: ef,
		IntervalDays:   interval,
		Repetitions:    repetitions,
		NextReviewAt:   reviewTime.AddDate(0, 0, interval),
		LastReviewAt:   &reviewed,
	}
}

// IsDue reports whether a word's scheduled review time has passed.
func IsDue(nextReviewAt, now time.Time) bool {
	return !nextReviewAt.After(now)
}

// MemoryStrength is a derived, non-authoritative retention metric in [0, 1]
// for analytics. It is 0 for any word without a success streak.
func MemoryStrength(state State) float64 {
	if state.Repetitions == 0 {
		return 0
	}
	strength := float64(state.Repetitions) * state.EasinessFactor *
		math.Log(float64(state.IntervalDays)+1) / 100
	return math.Min(1, math.Max(0, strength))
}

// updateEasinessFactor applies the per-quality EF delta and clamps the result.
func updateEasinessFactor(ef float64, quality Quality) float64 {
	if ef == 0 {
		ef = DefaultEasinessFactor
	}
	switch quality {
	case QualityAgain:
		ef -= 0.2
	case QualityHard:
		ef -= 0.15
	case QualityEasy:
		ef += 0.15
	}
	return math.Min(MaxEasinessFactor, math.Max(MinEasinessFactor, ef))
}

// nextInterval computes the interval in days from the already-updated
// repetitions and easiness factor.
func nextInterval(lastInterval, repetitions int, ef float64, quality Quality) int {
	if quality == QualityAgain {
		return 0
	}

	if quality == QualityHard {
		if repetitions == 0 {
			return 0
		}
		return maxInt(1, int(math.Floor(float64(lastInterval)*hardIntervalMultiplier)))
	}

	// GOOD or EASY
	switch repetitions {
	case 0:
		// Unreachable through Transition since GOOD/EASY increments
		// repetitions, but keep the clamp-not-fail contract.
		return 0
	case 1:
		return 1
	case 2:
		return 6
	}

	multiplier := goodIntervalMultiplier
	if quality == QualityEasy {
		multiplier = easyIntervalMultiplier
	}
	return maxInt(1, int(math.Round(float64(lastInterval)*ef*multiplier)))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
