package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/t-yamaguchi/revoca/internal/cli"
	"github.com/t-yamaguchi/revoca/internal/database"
	"github.com/t-yamaguchi/revoca/internal/review"
)

func newReviewCommand() *cobra.Command {
	var mode string
	var maxWords int
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Start an interactive review session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() { _ = db.Close() }()

			reviewCLI := cli.NewInteractiveReviewCLI(newReviewService(cfg, db))
			active, err := reviewCLI.Start(ctx, ownerID, review.Mode(mode), maxWords)
			if err != nil {
				return err
			}
			if !active {
				return nil
			}

			if err := reviewCLI.Run(ctx, reviewCLI); err != nil {
				return err
			}
			return reviewCLI.Finish(ctx)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "due", "Review mode: due or new")
	cmd.Flags().IntVar(&maxWords, "max-words", 0, "Maximum number of words in the session (0 uses the configured default)")
	cmd.Flags().Int64Var(&ownerID, "owner", 1, "Owner ID of the vocabulary")

	return cmd
}
