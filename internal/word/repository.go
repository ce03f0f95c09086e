package word

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a word does not exist.
var ErrNotFound = errors.New("word not found")

//go:generate mockgen -source=repository.go -destination=../mocks/word/mock_repository.go -package=mock_word

// Repository defines operations for managing words and their scheduler state.
type Repository interface {
	Find(ctx context.Context, id int64) (*Word, error)
	FindDue(ctx context.Context, ownerID int64, now time.Time, limit int) ([]Word, error)
	FindNew(ctx context.Context, ownerID int64, limit int) ([]Word, error)
	FindOthers(ctx context.Context, ownerID, excludeID int64, limit int) ([]Word, error)
	List(ctx context.Context, ownerID int64) ([]Word, error)
	Create(ctx context.Context, w *Word) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Find returns a word with its meanings, contexts and audios loaded.
func (r *DBRepository) Find(ctx context.Context, id int64) (*Word, error) {
	var w Word
	err := r.db.GetContext(ctx, &w, "SELECT * FROM words WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(word) > %w", err)
	}
	words := []Word{w}
	if err := r.loadRelations(ctx, words); err != nil {
		return nil, err
	}
	return &words[0], nil
}

// FindDue returns words whose next review time has passed, soonest first.
func (r *DBRepository) FindDue(ctx context.Context, ownerID int64, now time.Time, limit int) ([]Word, error) {
	var words []Word
	if err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE owner_id = ? AND next_review_at <= ? ORDER BY next_review_at LIMIT ?",
		ownerID, now, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due words) > %w", err)
	}
	if err := r.loadRelations(ctx, words); err != nil {
		return nil, err
	}
	return words, nil
}

// FindNew returns words that have never been recalled successfully.
func (r *DBRepository) FindNew(ctx context.Context, ownerID int64, limit int) ([]Word, error) {
	var words []Word
	if err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE owner_id = ? AND repetitions = 0 ORDER BY next_review_at LIMIT ?",
		ownerID, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(new words) > %w", err)
	}
	if err := r.loadRelations(ctx, words); err != nil {
		return nil, err
	}
	return words, nil
}

// FindOthers returns other words of the same owner, used as a distractor pool.
func (r *DBRepository) FindOthers(ctx context.Context, ownerID, excludeID int64, limit int) ([]Word, error) {
	var words []Word
	if err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE owner_id = ? AND id != ? LIMIT ?",
		ownerID, excludeID, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(distractor words) > %w", err)
	}
	if err := r.loadRelations(ctx, words); err != nil {
		return nil, err
	}
	return words, nil
}

// List returns all words of an owner ordered by creation.
func (r *DBRepository) List(ctx context.Context, ownerID int64) ([]Word, error) {
	var words []Word
	if err := r.db.SelectContext(ctx, &words,
		"SELECT * FROM words WHERE owner_id = ? ORDER BY id", ownerID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(words) > %w", err)
	}
	if err := r.loadRelations(ctx, words); err != nil {
		return nil, err
	}
	return words, nil
}

// Create inserts a word together with its meanings, contexts and audios.
func (r *DBRepository) Create(ctx context.Context, w *Word) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO words (owner_id, text, word_type, easiness_factor, interval_days, repetitions, next_review_at, last_review_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.OwnerID, w.Text, w.WordType, w.EasinessFactor, w.IntervalDays,
		w.Repetitions, w.NextReviewAt, w.LastReviewAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert word) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	w.ID = id

	for i := range w.Meanings {
		w.Meanings[i].WordID = id
		if _, err := r.db.ExecContext(ctx,
			"INSERT INTO word_meanings (word_id, definition, source) VALUES (?, ?, ?)",
			id, w.Meanings[i].Definition, w.Meanings[i].Source); err != nil {
			return fmt.Errorf("db.ExecContext(insert word_meaning) > %w", err)
		}
	}
	for i := range w.Contexts {
		w.Contexts[i].WordID = id
		if _, err := r.db.ExecContext(ctx,
			"INSERT INTO word_contexts (word_id, sentence) VALUES (?, ?)",
			id, w.Contexts[i].Sentence); err != nil {
			return fmt.Errorf("db.ExecContext(insert word_context) > %w", err)
		}
	}
	for i := range w.Audios {
		w.Audios[i].WordID = id
		if _, err := r.db.ExecContext(ctx,
			"INSERT INTO word_audios (word_id, audio_url) VALUES (?, ?)",
			id, w.Audios[i].AudioURL); err != nil {
			return fmt.Errorf("db.ExecContext(insert word_audio) > %w", err)
		}
	}
	return nil
}

// loadRelations attaches meanings, contexts and audios to the given words.
func (r *DBRepository) loadRelations(ctx context.Context, words []Word) error {
	if len(words) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(words))
	index := make(map[int64]*Word, len(words))
	for i := range words {
		ids = append(ids, words[i].ID)
		index[words[i].ID] = &words[i]
	}

	query, args, err := sqlx.In("SELECT * FROM word_meanings WHERE word_id IN (?) ORDER BY id", ids)
	if err != nil {
		return fmt.Errorf("sqlx.In(word_meanings) > %w", err)
	}
	var meanings []Meaning
	if err := r.db.SelectContext(ctx, &meanings, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.SelectContext(word_meanings) > %w", err)
	}
	for _, m := range meanings {
		index[m.WordID].Meanings = append(index[m.WordID].Meanings, m)
	}

	query, args, err = sqlx.In("SELECT * FROM word_contexts WHERE word_id IN (?) ORDER BY id", ids)
	if err != nil {
		return fmt.Errorf("sqlx.In(word_contexts) > %w", err)
	}
	var contexts []ContextSentence
	if err := r.db.SelectContext(ctx, &contexts, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.SelectContext(word_contexts) > %w", err)
	}
	for _, c := range contexts {
		index[c.WordID].Contexts = append(index[c.WordID].Contexts, c)
	}

	query, args, err = sqlx.In("SELECT * FROM word_audios WHERE word_id IN (?) ORDER BY id", ids)
	if err != nil {
		return fmt.Errorf("sqlx.In(word_audios) > %w", err)
	}
	var audios []Audio
	if err := r.db.SelectContext(ctx, &audios, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.SelectContext(word_audios) > %w", err)
	}
	for _, a := range audios {
		index[a.WordID].Audios = append(index[a.WordID].Audios, a)
	}

	return nil
}
