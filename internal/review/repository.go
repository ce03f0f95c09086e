package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/t-yamaguchi/revoca/internal/database"
	"github.com/t-yamaguchi/revoca/internal/srs"
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("review session not found")
	// ErrSessionCompleted is returned when completing a session that is no
	// longer in progress. Completion applies scheduler transitions, so it
	// must happen exactly once.
	ErrSessionCompleted = errors.New("review session already completed")
)

//go:generate mockgen -source=repository.go -destination=../mocks/review/mock_repository.go -package=mock_review

// SessionRepository persists review sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Find(ctx context.Context, id int64) (*Session, error)
	UpdateTotalQuestions(ctx context.Context, id int64, total int) error
	// Complete marks a session completed if and only if it is still in
	// progress, returning ErrSessionCompleted otherwise. The scheduler
	// transitions, keyed by word ID, are written in the same transaction as
	// the status claim: either the session completes with every word
	// rescheduled, or nothing changes and the caller may retry.
	Complete(ctx context.Context, id int64, correctCount int, completedAt time.Time, transitions map[int64]srs.State) error
	ListCompleted(ctx context.Context, ownerID int64, from, to time.Time) ([]Session, error)
}

// DBSessionRepository implements SessionRepository using MySQL.
type DBSessionRepository struct {
	db *sqlx.DB
}

// NewDBSessionRepository creates a new DBSessionRepository.
func NewDBSessionRepository(db *sqlx.DB) *DBSessionRepository {
	return &DBSessionRepository{db: db}
}

func (r *DBSessionRepository) Create(ctx context.Context, session *Session) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO review_sessions (owner_id, status, total_questions, correct_count, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.OwnerID, session.Status, session.TotalQuestions,
		session.CorrectCount, session.StartedAt, session.CompletedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert review_session) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	session.ID = id
	return nil
}

func (r *DBSessionRepository) Find(ctx context.Context, id int64) (*Session, error) {
	var session Session
	err := r.db.GetContext(ctx, &session,
		"SELECT * FROM review_sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(review_session) > %w", err)
	}
	return &session, nil
}

func (r *DBSessionRepository) UpdateTotalQuestions(ctx context.Context, id int64, total int) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE review_sessions SET total_questions = ? WHERE id = ?", total, id); err != nil {
		return fmt.Errorf("db.ExecContext(update total_questions) > %w", err)
	}
	return nil
}

// Complete transitions the session status and reschedules the reviewed words
// in a single transaction. The status guard in the WHERE clause is what makes
// completion single-application under concurrent callers; a failed scheduler
// write rolls the claim back so the session stays claimable.
func (r *DBSessionRepository) Complete(ctx context.Context, id int64, correctCount int, completedAt time.Time, transitions map[int64]srs.State) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE review_sessions
			SET status = ?, correct_count = ?, completed_at = ?
			WHERE id = ? AND status = ?`,
			StatusCompleted, correctCount, completedAt, id, StatusInProgress)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(complete review_session) > %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected() > %w", err)
		}
		if affected == 0 {
			return ErrSessionCompleted
		}

		// Fixed word order keeps concurrent completions sharing words from
		// deadlocking on row locks.
		wordIDs := make([]int64, 0, len(transitions))
		for wordID := range transitions {
			wordIDs = append(wordIDs, wordID)
		}
		sort.Slice(wordIDs, func(i, j int) bool { return wordIDs[i] < wordIDs[j] })

		for _, wordID := range wordIDs {
			state := transitions[wordID]
			if _, err := tx.ExecContext(ctx,
				`UPDATE words
				SET easiness_factor = ?, interval_days = ?, repetitions = ?, next_review_at = ?, last_review_at = ?
				WHERE id = ?`,
				state.EasinessFactor, state.IntervalDays, state.Repetitions,
				state.NextReviewAt, state.LastReviewAt, wordID); err != nil {
				return fmt.Errorf("tx.ExecContext(update word srs) > %w", err)
			}
		}
		return nil
	})
}

func (r *DBSessionRepository) ListCompleted(ctx context.Context, ownerID int64, from, to time.Time) ([]Session, error) {
	var sessions []Session
	if err := r.db.SelectContext(ctx, &sessions,
		`SELECT * FROM review_sessions
		WHERE owner_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at`,
		ownerID, StatusCompleted, from, to); err != nil {
		return nil, fmt.Errorf("db.SelectContext(completed review_sessions) > %w", err)
	}
	return sessions, nil
}
