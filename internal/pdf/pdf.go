// Package pdf renders review statistics reports as PDF files.
package pdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"

	"github.com/t-yamaguchi/revoca/internal/statistics"
)

// RenderReportMarkdown builds the markdown source of a statistics report.
func RenderReportMarkdown(result statistics.StatisticsResult) string {
	var sb strings.Builder

	sb.WriteString("# Review Statistics Report\n\n")

	if len(result.Periods) == 0 {
		sb.WriteString("No completed review sessions found for the specified period.\n")
		return sb.String()
	}

	sb.WriteString("| Period | Sessions | Questions | Correct | Accuracy |\n")
	sb.WriteString("|--------|----------|-----------|---------|----------|\n")
	for _, s := range result.Periods {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.1f%% |\n",
			s.Period, s.SessionsCount, s.QuestionsCount, s.CorrectCount, s.Accuracy*100))
	}

	sb.WriteString("\n## Totals\n\n")
	sb.WriteString(fmt.Sprintf("- Sessions: %d\n", result.Aggregate.SessionsCount))
	sb.WriteString(fmt.Sprintf("- Questions: %d\n", result.Aggregate.QuestionsCount))
	sb.WriteString(fmt.Sprintf("- Correct: %d\n", result.Aggregate.CorrectCount))
	sb.WriteString(fmt.Sprintf("- Accuracy: %.1f%%\n", result.Aggregate.Accuracy*100))
	sb.WriteString(fmt.Sprintf("- Average memory strength: %.1f%%\n", result.Aggregate.AverageMemoryStrength*100))

	return sb.String()
}

// WriteStatisticsReport renders the statistics report to a PDF file at
// outputPath and returns the absolute path of the written file.
func WriteStatisticsReport(result statistics.StatisticsResult, outputPath string) (string, error) {
	if !strings.HasSuffix(outputPath, ".pdf") {
		return "", fmt.Errorf("output file must have .pdf extension: %s", outputPath)
	}

	markdown := RenderReportMarkdown(result)

	renderer := mdtopdf.NewPdfRenderer("P", "A4", outputPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process([]byte(markdown)); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil
	}

	return absPath, nil
}
