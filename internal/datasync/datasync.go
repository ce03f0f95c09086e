// Package datasync provides import/export between YAML files and the database.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/t-yamaguchi/revoca/internal/srs"
	"github.com/t-yamaguchi/revoca/internal/word"
)

// ImportResult tracks counts for an import operation.
type ImportResult struct {
	WordsNew     int
	WordsSkipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// wordFile is the YAML document layout for imports and exports.
type wordFile struct {
	Words []word.Word `yaml:"words"`
}

// Importer reads YAML word data and writes to the database.
type Importer struct {
	words  word.Repository
	writer io.Writer
	now    func() time.Time
}

// NewImporter creates a new Importer.
func NewImporter(words word.Repository, writer io.Writer) *Importer {
	return &Importer{
		words:  words,
		writer: writer,
		now:    time.Now,
	}
}

// ImportWords imports words from YAML. Words whose text already exists for
// the owner are skipped; scheduling fields absent from the file start fresh.
func (imp *Importer) ImportWords(ctx context.Context, r io.Reader, ownerID int64, opts ImportOptions) (*ImportResult, error) {
	var file wordFile
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml.Decode() > %w", err)
	}

	existing, err := imp.words.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("words.List() > %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		known[w.Text] = struct{}{}
	}

	var result ImportResult
	for _, w := range file.Words {
		if !w.WordType.Valid() {
			return nil, fmt.Errorf("word %q has unknown word_type %q", w.Text, w.WordType)
		}
		if _, ok := known[w.Text]; ok {
			fmt.Fprintf(imp.writer, "  [SKIP]  %q\n", w.Text)
			result.WordsSkipped++
			continue
		}

		w.ID = 0
		w.OwnerID = ownerID
		if w.EasinessFactor == 0 {
			state := srs.NewState(imp.now())
			w.ApplySRSState(state)
		}

		if !opts.DryRun {
			if err := imp.words.Create(ctx, &w); err != nil {
				return nil, fmt.Errorf("words.Create(%s) > %w", w.Text, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  %q\n", w.Text)
		result.WordsNew++
		known[w.Text] = struct{}{}
	}

	return &result, nil
}

// Exporter reads the database and writes YAML.
type Exporter struct {
	words word.Repository
}

// NewExporter creates a new Exporter.
func NewExporter(words word.Repository) *Exporter {
	return &Exporter{words: words}
}

// ExportWords writes all words of an owner as a YAML document.
func (e *Exporter) ExportWords(ctx context.Context, w io.Writer, ownerID int64) (int, error) {
	words, err := e.words.List(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("words.List() > %w", err)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(wordFile{Words: words}); err != nil {
		return 0, fmt.Errorf("yaml.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return 0, fmt.Errorf("encoder.Close() > %w", err)
	}

	return len(words), nil
}
