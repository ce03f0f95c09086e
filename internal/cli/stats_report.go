package cli

import (
	"fmt"
	"io"

	"github.com/t-yamaguchi/revoca/internal/pdf"
	"github.com/t-yamaguchi/revoca/internal/statistics"
)

// RunStatsReport displays the review statistics report, and additionally
// writes a PDF file when pdfPath is non-empty.
func RunStatsReport(w io.Writer, result statistics.StatisticsResult, pdfPath string) error {
	if len(result.Periods) == 0 {
		fmt.Fprintln(w, "No completed review sessions found for the specified period.")
		return nil
	}

	fmt.Fprintln(w, "Review Statistics Report")
	fmt.Fprintln(w, "========================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %-10s  %-10s  %-10s  %-10s\n", "Period", "Sessions", "Questions", "Correct", "Accuracy")
	fmt.Fprintf(w, "%-10s  %-10s  %-10s  %-10s  %-10s\n", "------", "--------", "---------", "-------", "--------")

	for _, s := range result.Periods {
		fmt.Fprintf(w, "%-10s  %-10d  %-10d  %-10d  %-10s\n",
			s.Period,
			s.SessionsCount,
			s.QuestionsCount,
			s.CorrectCount,
			fmt.Sprintf("%.1f%%", s.Accuracy*100),
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %-10d  %-10d  %-10d  %-10s\n",
		"Totals:",
		result.Aggregate.SessionsCount,
		result.Aggregate.QuestionsCount,
		result.Aggregate.CorrectCount,
		fmt.Sprintf("%.1f%%", result.Aggregate.Accuracy*100),
	)
	fmt.Fprintf(w, "Average memory strength: %.1f%%\n", result.Aggregate.AverageMemoryStrength*100)

	if pdfPath != "" {
		written, err := pdf.WriteStatisticsReport(result, pdfPath)
		if err != nil {
			return fmt.Errorf("pdf.WriteStatisticsReport() > %w", err)
		}
		fmt.Fprintf(w, "\nPDF report written to %s\n", written)
	}

	return nil
}
