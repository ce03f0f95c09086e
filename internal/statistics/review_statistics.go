// Package statistics aggregates completed review sessions into per-period
// reports.
package statistics

import (
	"fmt"
	"sort"

	"github.com/t-yamaguchi/revoca/internal/review"
	"github.com/t-yamaguchi/revoca/internal/srs"
	"github.com/t-yamaguchi/revoca/internal/word"
)

// ReviewStatistics holds statistics for a time period
type ReviewStatistics struct {
	Period         string // "2025-01"
	SessionsCount  int
	QuestionsCount int
	CorrectCount   int
	Accuracy       float64
}

// AggregateStatistics holds totals across all periods
type AggregateStatistics struct {
	SessionsCount  int
	QuestionsCount int
	CorrectCount   int
	Accuracy       float64

	// AverageMemoryStrength is the mean retention estimate over the whole
	// vocabulary, independent of the period filter.
	AverageMemoryStrength float64
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []ReviewStatistics
	Aggregate AggregateStatistics
}

type periodData struct {
	sessions  int
	questions int
	correct   int
}

// CalculateStatistics aggregates completed review sessions into monthly
// buckets. It accepts optional year and month filters (0 means no filter).
// Sessions that are not completed are ignored.
func CalculateStatistics(sessions []review.Session, words []word.Word, year, month int) StatisticsResult {
	stats := make(map[string]*periodData)

	for _, session := range sessions {
		if session.Status != review.StatusCompleted || session.CompletedAt == nil {
			continue
		}

		logYear := session.CompletedAt.Year()
		logMonth := int(session.CompletedAt.Month())
		if !matchesFilter(logYear, logMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", logYear, logMonth)
		if stats[period] == nil {
			stats[period] = &periodData{}
		}
		stats[period].sessions++
		stats[period].questions += session.TotalQuestions
		stats[period].correct += session.CorrectCount
	}

	return buildResult(stats, words)
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*periodData, words []word.Word) StatisticsResult {
	periods := make([]ReviewStatistics, 0, len(stats))

	var totalSessions, totalQuestions, totalCorrect int
	for period, data := range stats {
		periods = append(periods, ReviewStatistics{
			Period:         period,
			SessionsCount:  data.sessions,
			QuestionsCount: data.questions,
			CorrectCount:   data.correct,
			Accuracy:       accuracy(data.correct, data.questions),
		})
		totalSessions += data.sessions
		totalQuestions += data.questions
		totalCorrect += data.correct
	}

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods: periods,
		Aggregate: AggregateStatistics{
			SessionsCount:         totalSessions,
			QuestionsCount:        totalQuestions,
			CorrectCount:          totalCorrect,
			Accuracy:              accuracy(totalCorrect, totalQuestions),
			AverageMemoryStrength: averageMemoryStrength(words),
		},
	}
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func averageMemoryStrength(words []word.Word) float64 {
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		sum += srs.MemoryStrength(w.SRSState())
	}
	return sum / float64(len(words))
}
