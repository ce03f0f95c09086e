package review_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_pool "github.com/t-yamaguchi/revoca/internal/mocks/pool"
	mock_review "github.com/t-yamaguchi/revoca/internal/mocks/review"
	mock_word "github.com/t-yamaguchi/revoca/internal/mocks/word"
	"github.com/t-yamaguchi/revoca/internal/question"
	"github.com/t-yamaguchi/revoca/internal/review"
	"github.com/t-yamaguchi/revoca/internal/srs"
	"github.com/t-yamaguchi/revoca/internal/word"
)

type serviceMocks struct {
	words    *mock_word.MockRepository
	sessions *mock_review.MockSessionRepository
	store    *mock_pool.MockStore
	pool     *mock_review.MockQuestionPool
}

func newTestService(t *testing.T, now time.Time) (*review.Service, serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mocks := serviceMocks{
		words:    mock_word.NewMockRepository(ctrl),
		sessions: mock_review.NewMockSessionRepository(ctrl),
		store:    mock_pool.NewMockStore(ctrl),
		pool:     mock_review.NewMockQuestionPool(ctrl),
	}
	service := review.NewService(mocks.words, mocks.sessions, mocks.store, mocks.pool,
		review.DefaultConfig(), rand.New(rand.NewSource(1)),
		review.WithClock(func() time.Time { return now }))
	return service, mocks
}

func issuedInstance(id int64, instanceID string, wordID, sessionID int64, answer string) question.Instance {
	return question.Instance{
		ID:           id,
		InstanceID:   instanceID,
		WordID:       wordID,
		SessionID:    &sessionID,
		QuestionType: question.TypeMeaningRecall,
		Content: question.Content{
			question.ContentQuestionText:  "Which word means: wanting to do something very much?",
			question.ContentCorrectAnswer: answer,
		},
		UsageCount: 1,
	}
}

func TestService_CreateSession(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("empty queue returns a completed session", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		mocks.words.EXPECT().FindDue(gomock.Any(), int64(1), now, 20).Return(nil, nil)
		mocks.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, session *review.Session) error {
				session.ID = 100
				return nil
			})

		view, err := service.CreateSession(context.Background(), 1, review.ModeDue, 0)
		require.NoError(t, err)

		assert.Equal(t, review.StatusCompleted, view.Session.Status)
		assert.Zero(t, view.Session.TotalQuestions)
		require.NotNil(t, view.Session.CompletedAt)
		assert.Empty(t, view.Questions)
	})

	t.Run("due mode acquires questions per word with shared distractors", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		eager := word.Word{ID: 10, OwnerID: 1, Text: "eager", WordType: word.TypeContent}
		at := word.Word{ID: 20, OwnerID: 1, Text: "at", WordType: word.TypeFunction}

		mocks.words.EXPECT().FindDue(gomock.Any(), int64(1), now, 20).Return([]word.Word{eager, at}, nil)
		mocks.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, session *review.Session) error {
				assert.Equal(t, review.StatusInProgress, session.Status)
				session.ID = 100
				return nil
			})
		mocks.pool.EXPECT().Acquire(gomock.Any(), &eager, int64(100), 2, []word.Word{at}).
			Return([]question.Instance{
				issuedInstance(1, "q1", 10, 100, "eager"),
				issuedInstance(2, "q2", 10, 100, "eager"),
			}, nil)
		mocks.pool.EXPECT().Acquire(gomock.Any(), &at, int64(100), 2, []word.Word{eager}).
			Return([]question.Instance{
				issuedInstance(3, "q3", 20, 100, "at"),
				issuedInstance(4, "q4", 20, 100, "at"),
			}, nil)
		mocks.sessions.EXPECT().UpdateTotalQuestions(gomock.Any(), int64(100), 4).Return(nil)

		view, err := service.CreateSession(context.Background(), 1, review.ModeDue, 0)
		require.NoError(t, err)

		assert.Equal(t, review.StatusInProgress, view.Session.Status)
		assert.Equal(t, 4, view.Session.TotalQuestions)
		require.Len(t, view.Questions, 4)

		ids := map[string]bool{}
		for _, instance := range view.Questions {
			ids[instance.InstanceID] = true
		}
		assert.Len(t, ids, 4, "every acquired question appears exactly once after the shuffle")
	})

	t.Run("generation failure skips the word instead of failing the session", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		eager := word.Word{ID: 10, OwnerID: 1, Text: "eager", WordType: word.TypeContent}
		at := word.Word{ID: 20, OwnerID: 1, Text: "at", WordType: word.TypeFunction}

		mocks.words.EXPECT().FindNew(gomock.Any(), int64(1), 20).Return([]word.Word{eager, at}, nil)
		mocks.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, session *review.Session) error {
				session.ID = 100
				return nil
			})
		mocks.pool.EXPECT().Acquire(gomock.Any(), &eager, int64(100), 2, gomock.Any()).
			Return(nil, &question.GenerationError{WordID: 10, Err: errors.New("provider timeout")})
		mocks.pool.EXPECT().Acquire(gomock.Any(), &at, int64(100), 2, gomock.Any()).
			Return([]question.Instance{issuedInstance(3, "q3", 20, 100, "at")}, nil)
		mocks.sessions.EXPECT().UpdateTotalQuestions(gomock.Any(), int64(100), 1).Return(nil)

		view, err := service.CreateSession(context.Background(), 1, review.ModeNew, 0)
		require.NoError(t, err)

		assert.Equal(t, review.StatusInProgress, view.Session.Status)
		require.Len(t, view.Questions, 1)
		assert.Equal(t, int64(20), view.Questions[0].WordID)
	})

	t.Run("all words failing generation completes the session", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		eager := word.Word{ID: 10, OwnerID: 1, Text: "eager", WordType: word.TypeContent}

		mocks.words.EXPECT().FindDue(gomock.Any(), int64(1), now, 20).Return([]word.Word{eager}, nil)
		mocks.sessions.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, session *review.Session) error {
				session.ID = 100
				return nil
			})
		mocks.pool.EXPECT().Acquire(gomock.Any(), &eager, int64(100), 2, gomock.Any()).
			Return(nil, &question.GenerationError{WordID: 10, Err: errors.New("provider timeout")})
		mocks.sessions.EXPECT().UpdateTotalQuestions(gomock.Any(), int64(100), 0).Return(nil)
		mocks.sessions.EXPECT().Complete(gomock.Any(), int64(100), 0, now, nil).Return(nil)

		view, err := service.CreateSession(context.Background(), 1, review.ModeDue, 0)
		require.NoError(t, err)

		assert.Equal(t, review.StatusCompleted, view.Session.Status)
		assert.Empty(t, view.Questions)
	})

	t.Run("invalid mode", func(t *testing.T) {
		service, _ := newTestService(t, now)

		_, err := service.CreateSession(context.Background(), 1, review.Mode("cram"), 0)
		assert.ErrorIs(t, err, review.ErrInvalidMode)
	})
}

func TestService_SubmitAnswer(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		answer    string
		correct   string
		wantMatch bool
	}{
		{name: "exact match", answer: "eager", correct: "eager", wantMatch: true},
		{name: "case and whitespace are ignored", answer: "  Eager ", correct: "eager", wantMatch: true},
		{name: "wrong answer", answer: "idle", correct: "eager", wantMatch: false},
		{name: "empty answer", answer: "", correct: "eager", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mocks := newTestService(t, now)

			instance := issuedInstance(5, "q5", 10, 100, tt.correct)
			mocks.store.EXPECT().FindByInstanceID(gomock.Any(), "q5").Return(&instance, nil)
			mocks.store.EXPECT().SaveAnswer(gomock.Any(), int64(5), tt.answer, tt.wantMatch, int64(4200), 1).Return(nil)

			got, err := service.SubmitAnswer(context.Background(), "q5", tt.answer,
				review.Telemetry{TimeSpentMs: 4200, AnswerChangeCount: 1})
			require.NoError(t, err)

			assert.Equal(t, tt.wantMatch, got.IsCorrect)
			assert.Equal(t, tt.correct, got.CorrectAnswer)
		})
	}

	t.Run("unknown instance", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		mocks.store.EXPECT().FindByInstanceID(gomock.Any(), "missing").
			Return(nil, errors.New("question instance not found"))

		_, err := service.SubmitAnswer(context.Background(), "missing", "eager", review.Telemetry{})
		assert.Error(t, err)
	})

	t.Run("instance not issued to a session", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		template := question.Instance{ID: 5, InstanceID: "q5", WordID: 10,
			Content: question.Content{question.ContentCorrectAnswer: "eager"}}
		mocks.store.EXPECT().FindByInstanceID(gomock.Any(), "q5").Return(&template, nil)

		_, err := service.SubmitAnswer(context.Background(), "q5", "eager", review.Telemetry{})
		assert.Error(t, err)
	})
}

func TestService_CompleteSession(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	answered := func(instance question.Instance, correct bool, timeSpentMs int64) question.Instance {
		instance.UserAnswer = ptr("whatever")
		instance.IsCorrect = &correct
		instance.TimeSpentMs = &timeSpentMs
		return instance
	}

	t.Run("folds answers into scheduler state once", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		session := &review.Session{ID: 100, OwnerID: 1, Status: review.StatusInProgress, TotalQuestions: 3, StartedAt: now}
		mocks.sessions.EXPECT().Find(gomock.Any(), int64(100)).Return(session, nil)
		mocks.store.EXPECT().FindBySession(gomock.Any(), int64(100)).Return([]question.Instance{
			answered(issuedInstance(1, "q1", 10, 100, "eager"), true, 3000),
			answered(issuedInstance(2, "q2", 10, 100, "eager"), true, 8000),
			answered(issuedInstance(3, "q3", 20, 100, "at"), false, 12000),
		}, nil)

		eager := &word.Word{ID: 10, OwnerID: 1, Text: "eager", WordType: word.TypeContent,
			EasinessFactor: 2.5, NextReviewAt: now}
		at := &word.Word{ID: 20, OwnerID: 1, Text: "at", WordType: word.TypeFunction,
			EasinessFactor: 2.0, IntervalDays: 6, Repetitions: 2, NextReviewAt: now}
		mocks.words.EXPECT().Find(gomock.Any(), int64(10)).Return(eager, nil)
		mocks.words.EXPECT().Find(gomock.Any(), int64(20)).Return(at, nil)

		mocks.sessions.EXPECT().Complete(gomock.Any(), int64(100), 2, now, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ int, _ time.Time, transitions map[int64]srs.State) error {
				require.Len(t, transitions, 2)

				// Two consecutive passes: first at 3s (EASY), second at 8s (GOOD).
				state := transitions[10]
				assert.Equal(t, 2, state.Repetitions)
				assert.Equal(t, 6, state.IntervalDays)
				assert.Equal(t, now.Add(6*24*time.Hour), state.NextReviewAt)
				require.NotNil(t, state.LastReviewAt)

				// A lapse resets the streak and schedules an immediate retry.
				state = transitions[20]
				assert.Zero(t, state.Repetitions)
				assert.Zero(t, state.IntervalDays)
				assert.InDelta(t, 1.8, state.EasinessFactor, 1e-9)
				assert.Equal(t, now, state.NextReviewAt)
				return nil
			})

		summary, err := service.CompleteSession(context.Background(), 100)
		require.NoError(t, err)

		assert.Equal(t, 3, summary.TotalQuestions)
		assert.Equal(t, 2, summary.CorrectCount)
		assert.InDelta(t, 2.0/3.0, summary.Accuracy, 1e-9)
		assert.Equal(t, now, summary.CompletedAt)
	})

	t.Run("unanswered questions are excluded from counts and transitions", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		session := &review.Session{ID: 100, OwnerID: 1, Status: review.StatusInProgress, TotalQuestions: 2, StartedAt: now}
		mocks.sessions.EXPECT().Find(gomock.Any(), int64(100)).Return(session, nil)
		mocks.store.EXPECT().FindBySession(gomock.Any(), int64(100)).Return([]question.Instance{
			answered(issuedInstance(1, "q1", 10, 100, "eager"), true, 3000),
			issuedInstance(2, "q2", 20, 100, "at"),
		}, nil)

		eager := &word.Word{ID: 10, OwnerID: 1, Text: "eager", EasinessFactor: 2.5, NextReviewAt: now}
		mocks.words.EXPECT().Find(gomock.Any(), int64(10)).Return(eager, nil)
		mocks.sessions.EXPECT().Complete(gomock.Any(), int64(100), 1, now, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ int, _ time.Time, transitions map[int64]srs.State) error {
				require.Len(t, transitions, 1)
				assert.Contains(t, transitions, int64(10))
				return nil
			})

		summary, err := service.CompleteSession(context.Background(), 100)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.CorrectCount)
	})

	t.Run("rejected claim surfaces without losing transitions", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		session := &review.Session{ID: 100, OwnerID: 1, Status: review.StatusInProgress, TotalQuestions: 1, StartedAt: now}
		mocks.sessions.EXPECT().Find(gomock.Any(), int64(100)).Return(session, nil)
		mocks.store.EXPECT().FindBySession(gomock.Any(), int64(100)).Return([]question.Instance{
			answered(issuedInstance(1, "q1", 10, 100, "eager"), true, 3000),
		}, nil)

		eager := &word.Word{ID: 10, OwnerID: 1, Text: "eager", EasinessFactor: 2.5, NextReviewAt: now}
		mocks.words.EXPECT().Find(gomock.Any(), int64(10)).Return(eager, nil)
		// A concurrent caller claimed the session first; the repository rolls
		// everything back and reports it.
		mocks.sessions.EXPECT().Complete(gomock.Any(), int64(100), 1, now, gomock.Any()).
			Return(review.ErrSessionCompleted)

		_, err := service.CompleteSession(context.Background(), 100)
		assert.ErrorIs(t, err, review.ErrSessionCompleted)
	})

	t.Run("completing twice is rejected", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		completedAt := now.Add(-time.Hour)
		session := &review.Session{ID: 100, Status: review.StatusCompleted, CompletedAt: &completedAt}
		mocks.sessions.EXPECT().Find(gomock.Any(), int64(100)).Return(session, nil)

		_, err := service.CompleteSession(context.Background(), 100)
		assert.ErrorIs(t, err, review.ErrSessionCompleted)
	})

	t.Run("unknown session", func(t *testing.T) {
		service, mocks := newTestService(t, now)

		mocks.sessions.EXPECT().Find(gomock.Any(), int64(99)).Return(nil, review.ErrNotFound)

		_, err := service.CompleteSession(context.Background(), 99)
		assert.ErrorIs(t, err, review.ErrNotFound)
	})
}

func TestService_GetSession(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	service, mocks := newTestService(t, now)

	session := &review.Session{ID: 100, OwnerID: 1, Status: review.StatusInProgress, TotalQuestions: 1, StartedAt: now}
	mocks.sessions.EXPECT().Find(gomock.Any(), int64(100)).Return(session, nil)
	mocks.store.EXPECT().FindBySession(gomock.Any(), int64(100)).
		Return([]question.Instance{issuedInstance(1, "q1", 10, 100, "eager")}, nil)

	view, err := service.GetSession(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, int64(100), view.Session.ID)
	require.Len(t, view.Questions, 1)
	assert.Equal(t, "q1", view.Questions[0].InstanceID)
}

func ptr[T any](v T) *T {
	return &v
}
