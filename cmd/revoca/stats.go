package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/t-yamaguchi/revoca/internal/cli"
	"github.com/t-yamaguchi/revoca/internal/database"
	"github.com/t-yamaguchi/revoca/internal/review"
	"github.com/t-yamaguchi/revoca/internal/statistics"
	"github.com/t-yamaguchi/revoca/internal/word"
)

func newStatsCommand() *cobra.Command {
	var year, month int
	var pdfPath string
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show monthly review statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() { _ = db.Close() }()

			from, to := periodRange(year, month)
			sessions, err := review.NewDBSessionRepository(db).ListCompleted(ctx, ownerID, from, to)
			if err != nil {
				return fmt.Errorf("sessions.ListCompleted() > %w", err)
			}
			words, err := word.NewDBRepository(db).List(ctx, ownerID)
			if err != nil {
				return fmt.Errorf("words.List() > %w", err)
			}

			result := statistics.CalculateStatistics(sessions, words, year, month)
			return cli.RunStatsReport(os.Stdout, result, pdfPath)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Also write the report to this PDF file")
	cmd.Flags().Int64Var(&ownerID, "owner", 1, "Owner ID of the vocabulary")

	return cmd
}

// periodRange translates the year/month filters into a completed_at window.
func periodRange(year, month int) (time.Time, time.Time) {
	if year == 0 {
		return time.Time{}, time.Now()
	}
	if month == 0 {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
