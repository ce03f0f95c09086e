package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/t-yamaguchi/revoca/internal/database"
	"github.com/t-yamaguchi/revoca/internal/datasync"
	"github.com/t-yamaguchi/revoca/internal/srs"
	"github.com/t-yamaguchi/revoca/internal/word"
)

func newWordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "Manage vocabulary words",
	}
	cmd.AddCommand(
		newWordAddCommand(),
		newWordListCommand(),
		newWordImportCommand(),
		newWordExportCommand(),
		newWordPregenCommand(),
	)
	return cmd
}

func newWordAddCommand() *cobra.Command {
	var wordType string
	var meanings, contexts []string
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a word to the vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !word.Type(wordType).Valid() {
				return fmt.Errorf("--type must be %s or %s", word.TypeContent, word.TypeFunction)
			}
			if len(meanings) == 0 {
				return fmt.Errorf("at least one --meaning is required")
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

			w := word.Word{
				OwnerID:  ownerID,
				Text:     args[0],
				WordType: word.Type(wordType),
			}
			w.ApplySRSState(srs.NewState(time.Now()))
			for _, m := range meanings {
				w.Meanings = append(w.Meanings, word.Meaning{Definition: m})
			}
			for _, c := range contexts {
				w.Contexts = append(w.Contexts, word.ContextSentence{Sentence: c})
			}

			if err := word.NewDBRepository(db).Create(ctx, &w); err != nil {
				return fmt.Errorf("repository.Create() > %w", err)
			}
			fmt.Printf("Added %q (id %d)\n", w.Text, w.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&wordType, "type", string(word.TypeContent), "Word type: content_word or function_word")
	cmd.Flags().StringArrayVar(&meanings, "meaning", nil, "Definition of the word (repeatable)")
	cmd.Flags().StringArrayVar(&contexts, "context", nil, "Example sentence using the word (repeatable)")
	cmd.Flags().Int64Var(&ownerID, "owner", 1, "Owner ID of the vocabulary")

	return cmd
}

func newWordListCommand() *cobra.Command {
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all words with their scheduling state",
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

			words, err := word.NewDBRepository(db).List(ctx, ownerID)
			if err != nil {
				return fmt.Errorf("repository.List() > %w", err)
			}
			if len(words) == 0 {
				fmt.Println("No words yet. Add one with `revoca word add`.")
				return nil
			}

			fmt.Printf("%-20s  %-6s  %-8s  %-6s  %-12s  %-8s\n", "Word", "EF", "Interval", "Reps", "Next review", "Strength")
			for _, w := range words {
				fmt.Printf("%-20s  %-6.2f  %-8d  %-6d  %-12s  %-8s\n",
					w.Text,
					w.EasinessFactor,
					w.IntervalDays,
					w.Repetitions,
					w.NextReviewAt.Format("2006-01-02"),
					fmt.Sprintf("%.0f%%", srs.MemoryStrength(w.SRSState())*100),
				)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&ownerID, "owner", 1, "Owner ID of the vocabulary")
	return cmd
}

func newWordImportCommand() *cobra.Command {
	var dryRun bool
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a YAML file",
		Args:  cobra.ExactArgs(1),
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

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() { _ = file.Close() }()

			importer := datasync.NewImporter(word.NewDBRepository(db), os.Stdout)
			result, err := importer.ImportWords(ctx, file, ownerID, datasync.ImportOptions{DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("importer.ImportWords() > %w", err)
			}

			fmt.Println("\nImport Summary:")
			if dryRun {
				fmt.Println("  (dry-run mode — no changes made)")
			}
			fmt.Printf("  Words: %d new, %d skipped\n", result.WordsNew, result.WordsSkipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().Int64Var(&ownerID, "owner", 1, "Owner ID of the vocabulary")
	return cmd
}

func newWordExportCommand() *cobra.Command {
	var output string
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all words as YAML",
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

			out := os.Stdout
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", output, err)
				}
				defer func() { _ = file.Close() }()
				out = file
			}

			exporter := datasync.NewExporter(word.NewDBRepository(db))
			count, err := exporter.ExportWords(ctx, out, ownerID)
			if err != nil {
				return fmt.Errorf("exporter.ExportWords() > %w", err)
			}
			if output != "" {
				fmt.Printf("Exported %d words to %s\n", count, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().Int64Var(&ownerID, "owner", 1, "Owner ID of the vocabulary")
	return cmd
}

func newWordPregenCommand() *cobra.Command {
	var count int
	var ownerID int64

	cmd := &cobra.Command{
		Use:   "pregen",
		Short: "Pre-generate question instances for due words",
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

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			manager := newPoolManager(cfg, db, rng)
			words := word.NewDBRepository(db)

			due, err := words.FindDue(ctx, ownerID, time.Now(), cfg.Review.MaxWords)
			if err != nil {
				return fmt.Errorf("repository.FindDue() > %w", err)
			}
			if len(due) == 0 {
				fmt.Println("No due words to pre-generate questions for.")
				return nil
			}

			total := 0
			for i := range due {
				distractors, err := words.FindOthers(ctx, ownerID, due[i].ID, 10)
				if err != nil {
					return fmt.Errorf("repository.FindOthers() > %w", err)
				}
				created, err := manager.PreGenerate(ctx, &due[i], count, distractors)
				if err != nil {
					return fmt.Errorf("manager.PreGenerate(%s) > %w", due[i].Text, err)
				}
				total += created
			}
			fmt.Printf("Pre-generated %d question instances for %d words.\n", total, len(due))
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 2, "Number of instances to generate per word")
	cmd.Flags().Int64Var(&ownerID, "owner", 1, "Owner ID of the vocabulary")
	return cmd
}
