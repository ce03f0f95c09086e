package pool

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-yamaguchi/revoca/internal/question"
)

var instanceColumns = []string{
	"id", "instance_id", "word_id", "session_id", "question_type", "difficulty",
	"content", "usage_count", "user_answer", "is_correct", "time_spent_ms",
	"answer_change_count", "created_at",
}

func TestDBStore_FindPool(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantLen   int
		wantErr   bool
	}{
		{
			name: "returns reusable instances",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(instanceColumns).
					AddRow(1, "a1", 10, nil, "meaning_recall", "easy",
						[]byte(`{"question_text":"What does \"eager\" mean?","correct_answer":"keen"}`),
						0, nil, nil, nil, nil, now).
					AddRow(2, "a2", 10, nil, "fill_blank", "easy",
						[]byte(`{"question_text":"He was ___ to start.","correct_answer":"eager"}`),
						2, nil, nil, nil, nil, now.Add(time.Minute))
				mock.ExpectQuery("SELECT \\* FROM question_instances WHERE word_id = \\? AND session_id IS NULL ORDER BY created_at, id").
					WithArgs(int64(10)).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM question_instances WHERE word_id = \\? AND session_id IS NULL ORDER BY created_at, id").
					WithArgs(int64(10)).
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			store := NewDBStore(sqlxDB)
			tt.setupMock(mock)

			got, err := store.FindPool(context.Background(), 10)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)

			assert.Equal(t, int64(1), got[0].ID)
			assert.Equal(t, question.TypeMeaningRecall, got[0].QuestionType)
			assert.Equal(t, "keen", got[0].Content.CorrectAnswer())
			assert.Nil(t, got[0].SessionID)

			assert.Equal(t, question.TypeFillBlank, got[1].QuestionType)
			assert.Equal(t, 2, got[1].UsageCount)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBStore_FindByInstanceID(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sessionID := int64(7)

	tests := []struct {
		name       string
		instanceID string
		setupMock  func(mock sqlmock.Sqlmock)
		want       *question.Instance
		wantErr    error
	}{
		{
			name:       "found",
			instanceID: "a1",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(instanceColumns).
					AddRow(1, "a1", 10, sessionID, "dictation", "medium",
						[]byte(`{"question_text":"Type the word you hear.","correct_answer":"eager"}`),
						1, nil, nil, nil, nil, now)
				mock.ExpectQuery("SELECT \\* FROM question_instances WHERE instance_id = \\?").
					WithArgs("a1").
					WillReturnRows(rows)
			},
			want: &question.Instance{
				ID:           1,
				InstanceID:   "a1",
				WordID:       10,
				SessionID:    &sessionID,
				QuestionType: question.TypeDictation,
				Difficulty:   question.DifficultyMedium,
				UsageCount:   1,
			},
		},
		{
			name:       "not found",
			instanceID: "missing",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM question_instances WHERE instance_id = \\?").
					WithArgs("missing").
					WillReturnRows(sqlmock.NewRows(instanceColumns))
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			store := NewDBStore(sqlxDB)
			tt.setupMock(mock)

			got, err := store.FindByInstanceID(context.Background(), tt.instanceID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, tt.want.InstanceID, got.InstanceID)
			assert.Equal(t, tt.want.QuestionType, got.QuestionType)
			assert.Equal(t, tt.want.Difficulty, got.Difficulty)
			require.NotNil(t, got.SessionID)
			assert.Equal(t, *tt.want.SessionID, *got.SessionID)
			assert.Equal(t, "eager", got.Content.CorrectAnswer())

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBStore_Create(t *testing.T) {
	sessionID := int64(7)

	tests := []struct {
		name      string
		instance  *question.Instance
		setupMock func(mock sqlmock.Sqlmock)
		wantID    int64
		wantErr   bool
	}{
		{
			name: "inserts a pool template",
			instance: &question.Instance{
				InstanceID:   "a1",
				WordID:       10,
				QuestionType: question.TypeMeaningRecall,
				Difficulty:   question.DifficultyEasy,
				Content: question.Content{
					question.ContentQuestionText:  "What does \"eager\" mean?",
					question.ContentCorrectAnswer: "keen",
				},
				UsageCount: 1,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO question_instances").
					WithArgs("a1", int64(10), nil, question.TypeMeaningRecall,
						question.DifficultyEasy, sqlmock.AnyArg(), 1).
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			wantID: 42,
		},
		{
			name: "inserts a session instance",
			instance: &question.Instance{
				InstanceID:   "b2",
				WordID:       10,
				SessionID:    &sessionID,
				QuestionType: question.TypeDictation,
				Difficulty:   question.DifficultyMedium,
				Content:      question.Content{},
				UsageCount:   1,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO question_instances").
					WithArgs("b2", int64(10), &sessionID, question.TypeDictation,
						question.DifficultyMedium, sqlmock.AnyArg(), 1).
					WillReturnResult(sqlmock.NewResult(43, 1))
			},
			wantID: 43,
		},
		{
			name: "db error",
			instance: &question.Instance{
				InstanceID:   "a1",
				WordID:       10,
				QuestionType: question.TypeMeaningRecall,
				Content:      question.Content{},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO question_instances").
					WillReturnError(fmt.Errorf("duplicate entry"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			store := NewDBStore(sqlxDB)
			tt.setupMock(mock)

			err = store.Create(context.Background(), tt.instance)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, tt.instance.ID)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBStore_ResetUsageCounts(t *testing.T) {
	tests := []struct {
		name      string
		ids       []int64
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name:      "empty slice is a no-op",
			ids:       nil,
			setupMock: func(mock sqlmock.Sqlmock) {},
		},
		{
			name: "resets the given ids",
			ids:  []int64{1, 3},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE question_instances SET usage_count = 0 WHERE id IN \\(\\?, \\?\\)").
					WithArgs(int64(1), int64(3)).
					WillReturnResult(sqlmock.NewResult(0, 2))
			},
		},
		{
			name: "db error",
			ids:  []int64{1},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE question_instances SET usage_count = 0 WHERE id IN \\(\\?\\)").
					WithArgs(int64(1)).
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			store := NewDBStore(sqlxDB)
			tt.setupMock(mock)

			err = store.ResetUsageCounts(context.Background(), tt.ids)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBStore_SaveAnswer(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "records the answer",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE question_instances").
					WithArgs("keen", true, int64(4200), 1, int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "already answered",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE question_instances").
					WithArgs("keen", true, int64(4200), 1, int64(5)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrAlreadyAnswered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			store := NewDBStore(sqlxDB)
			tt.setupMock(mock)

			err = store.SaveAnswer(context.Background(), 5, "keen", true, 4200, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
