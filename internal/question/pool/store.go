// Package pool manages the per-word pool of reusable question instances,
// balancing novelty against generation cost.
package pool

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/t-yamaguchi/revoca/internal/question"
)

var (
	// ErrNotFound is returned when a question instance does not exist.
	ErrNotFound = errors.New("question instance not found")
	// ErrAlreadyAnswered is returned when writing an answer onto an
	// instance that already has one. Answered instances are immutable.
	ErrAlreadyAnswered = errors.New("question instance already answered")
)

//go:generate mockgen -source=store.go -destination=../../mocks/pool/mock_store.go -package=mock_pool

// Store persists question instances: both the reusable per-word pool
// (session_id NULL) and the instances issued to sessions.
type Store interface {
	// FindPool returns a word's reusable instances ordered by creation time.
	FindPool(ctx context.Context, wordID int64) ([]question.Instance, error)
	FindByInstanceID(ctx context.Context, instanceID string) (*question.Instance, error)
	FindBySession(ctx context.Context, sessionID int64) ([]question.Instance, error)
	Create(ctx context.Context, instance *question.Instance) error
	UpdateUsageCount(ctx context.Context, id int64, usageCount int) error
	ResetUsageCounts(ctx context.Context, ids []int64) error
	Delete(ctx context.Context, id int64) error
	SaveAnswer(ctx context.Context, id int64, answer string, isCorrect bool, timeSpentMs int64, answerChangeCount int) error
}

// instanceRow is the database shape of a question instance; the content
// snapshot is stored as JSON.
type instanceRow struct {
	ID                int64               `db:"id"`
	InstanceID        string              `db:"instance_id"`
	WordID            int64               `db:"word_id"`
	SessionID         *int64              `db:"session_id"`
	QuestionType      question.Type       `db:"question_type"`
	Difficulty        question.Difficulty `db:"difficulty"`
	Content           []byte              `db:"content"`
	UsageCount        int                 `db:"usage_count"`
	UserAnswer        *string             `db:"user_answer"`
	IsCorrect         *bool               `db:"is_correct"`
	TimeSpentMs       *int64              `db:"time_spent_ms"`
	AnswerChangeCount *int                `db:"answer_change_count"`
	CreatedAt         time.Time           `db:"created_at"`
}

func (r *instanceRow) toInstance() (question.Instance, error) {
	var content question.Content
	if len(r.Content) > 0 {
		if err := json.Unmarshal(r.Content, &content); err != nil {
			return question.Instance{}, fmt.Errorf("json.Unmarshal(question content) > %w", err)
		}
	}
	return question.Instance{
		ID:                r.ID,
		InstanceID:        r.InstanceID,
		WordID:            r.WordID,
		SessionID:         r.SessionID,
		QuestionType:      r.QuestionType,
		Difficulty:        r.Difficulty,
		Content:           content,
		UsageCount:        r.UsageCount,
		UserAnswer:        r.UserAnswer,
		IsCorrect:         r.IsCorrect,
		TimeSpentMs:       r.TimeSpentMs,
		AnswerChangeCount: r.AnswerChangeCount,
		CreatedAt:         r.CreatedAt,
	}, nil
}

// DBStore implements Store using MySQL.
type DBStore struct {
	db *sqlx.DB
}

// NewDBStore creates a new DBStore.
func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

// FindPool returns the reusable instances for a word, oldest first.
func (s *DBStore) FindPool(ctx context.Context, wordID int64) ([]question.Instance, error) {
	var rows []instanceRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM question_instances WHERE word_id = ? AND session_id IS NULL ORDER BY created_at, id",
		wordID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(question pool) > %w", err)
	}
	return toInstances(rows)
}

// FindByInstanceID returns the instance with the given public identifier.
func (s *DBStore) FindByInstanceID(ctx context.Context, instanceID string) (*question.Instance, error) {
	var row instanceRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM question_instances WHERE instance_id = ?", instanceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(question instance) > %w", err)
	}
	instance, err := row.toInstance()
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// FindBySession returns all instances issued to a session.
func (s *DBStore) FindBySession(ctx context.Context, sessionID int64) ([]question.Instance, error) {
	var rows []instanceRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM question_instances WHERE session_id = ? ORDER BY id", sessionID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(session questions) > %w", err)
	}
	return toInstances(rows)
}

// Create inserts a new question instance.
func (s *DBStore) Create(ctx context.Context, instance *question.Instance) error {
	content, err := json.Marshal(instance.Content)
	if err != nil {
		return fmt.Errorf("json.Marshal(question content) > %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO question_instances (instance_id, word_id, session_id, question_type, difficulty, content, usage_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		instance.InstanceID, instance.WordID, instance.SessionID,
		instance.QuestionType, instance.Difficulty, content, instance.UsageCount)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert question_instance) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	instance.ID = id
	return nil
}

// UpdateUsageCount persists a reuse of a pool instance.
func (s *DBStore) UpdateUsageCount(ctx context.Context, id int64, usageCount int) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE question_instances SET usage_count = ? WHERE id = ?", usageCount, id); err != nil {
		return fmt.Errorf("db.ExecContext(update usage_count) > %w", err)
	}
	return nil
}

// ResetUsageCounts recycles pool instances back to zero uses.
func (s *DBStore) ResetUsageCounts(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("UPDATE question_instances SET usage_count = 0 WHERE id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("sqlx.In(reset usage_count) > %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.ExecContext(reset usage_count) > %w", err)
	}
	return nil
}

// Delete evicts an instance from the pool.
func (s *DBStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM question_instances WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.ExecContext(delete question_instance) > %w", err)
	}
	return nil
}

// SaveAnswer records the submitted answer and its telemetry. This is the
// instance's terminal mutation; it refuses to overwrite an existing answer.
func (s *DBStore) SaveAnswer(ctx context.Context, id int64, answer string, isCorrect bool, timeSpentMs int64, answerChangeCount int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE question_instances
		SET user_answer = ?, is_correct = ?, time_spent_ms = ?, answer_change_count = ?
		WHERE id = ? AND is_correct IS NULL`,
		answer, isCorrect, timeSpentMs, answerChangeCount, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(save answer) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return ErrAlreadyAnswered
	}
	return nil
}

func toInstances(rows []instanceRow) ([]question.Instance, error) {
	instances := make([]question.Instance, 0, len(rows))
	for i := range rows {
		instance, err := rows[i].toInstance()
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, nil
}
