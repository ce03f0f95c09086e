package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/t-yamaguchi/revoca/internal/question"
	"github.com/t-yamaguchi/revoca/internal/question/pool"
	"github.com/t-yamaguchi/revoca/internal/srs"
	"github.com/t-yamaguchi/revoca/internal/word"
)

// ErrInvalidMode is returned for an unknown session mode.
var ErrInvalidMode = errors.New("invalid session mode")

const (
	defaultMaxWords         = 20
	defaultQuestionsPerWord = 2
)

//go:generate mockgen -source=service.go -destination=../mocks/review/mock_service.go -package=mock_review

// QuestionPool issues question instances for a word within a session.
type QuestionPool interface {
	Acquire(ctx context.Context, w *word.Word, sessionID int64, count int, distractors []word.Word) ([]question.Instance, error)
}

// Config tunes session composition.
type Config struct {
	MaxWords         int
	QuestionsPerWord int
}

// DefaultConfig returns the default session tuning.
func DefaultConfig() Config {
	return Config{
		MaxWords:         defaultMaxWords,
		QuestionsPerWord: defaultQuestionsPerWord,
	}
}

// Service orchestrates review sessions.
type Service struct {
	words    word.Repository
	sessions SessionRepository
	store    pool.Store
	pool     QuestionPool
	config   Config
	now      func() time.Time

	mu    sync.Mutex
	rng   *rand.Rand
	locks map[int64]*sync.Mutex
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock replaces the wall clock used to stamp reviews.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a review service. The random source drives the global
// question shuffle.
func NewService(
	words word.Repository,
	sessions SessionRepository,
	store pool.Store,
	questionPool QuestionPool,
	config Config,
	rng *rand.Rand,
	opts ...ServiceOption,
) *Service {
	if config.MaxWords <= 0 {
		config.MaxWords = defaultMaxWords
	}
	if config.QuestionsPerWord <= 0 {
		config.QuestionsPerWord = defaultQuestionsPerWord
	}
	service := &Service{
		words:    words,
		sessions: sessions,
		store:    store,
		pool:     questionPool,
		config:   config,
		now:      time.Now,
		rng:      rng,
		locks:    map[int64]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateSession selects candidate words for the given mode, acquires
// questions for each from the pool and returns the session with its shuffled
// question list. An empty candidate set yields an immediately completed
// session rather than an error.
func (s *Service) CreateSession(ctx context.Context, ownerID int64, mode Mode, maxWords int) (*View, error) {
	if maxWords <= 0 || maxWords > s.config.MaxWords {
		maxWords = s.config.MaxWords
	}
	now := s.now()

	var candidates []word.Word
	var err error
	switch mode {
	case ModeDue:
		candidates, err = s.words.FindDue(ctx, ownerID, now, maxWords)
	case ModeNew:
		candidates, err = s.words.FindNew(ctx, ownerID, maxWords)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("word selection > %w", err)
	}

	if len(candidates) == 0 {
		session := Session{
			OwnerID:     ownerID,
			Status:      StatusCompleted,
			StartedAt:   now,
			CompletedAt: &now,
		}
		if err := s.sessions.Create(ctx, &session); err != nil {
			return nil, fmt.Errorf("sessions.Create > %w", err)
		}
		return &View{Session: session}, nil
	}

	session := Session{
		OwnerID:   ownerID,
		Status:    StatusInProgress,
		StartedAt: now,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return nil, fmt.Errorf("sessions.Create > %w", err)
	}

	var questions []question.Instance
	for i := range candidates {
		// The other candidates serve as the shared distractor pool.
		distractors := make([]word.Word, 0, len(candidates)-1)
		distractors = append(distractors, candidates[:i]...)
		distractors = append(distractors, candidates[i+1:]...)

		issued, err := s.pool.Acquire(ctx, &candidates[i], session.ID, s.config.QuestionsPerWord, distractors)
		var genErr *question.GenerationError
		if errors.As(err, &genErr) {
			// A partial session beats failing the whole session.
			slog.Default().Warn("skipping word after generation failure",
				"word", candidates[i].Text, "error", genErr.Err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("pool.Acquire(%q) > %w", candidates[i].Text, err)
		}
		questions = append(questions, issued...)
	}

	s.shuffle(questions)

	session.TotalQuestions = len(questions)
	if err := s.sessions.UpdateTotalQuestions(ctx, session.ID, len(questions)); err != nil {
		return nil, fmt.Errorf("sessions.UpdateTotalQuestions > %w", err)
	}
	if len(questions) == 0 {
		// Every word failed generation. Nothing to answer.
		if err := s.sessions.Complete(ctx, session.ID, 0, now, nil); err != nil {
			return nil, fmt.Errorf("sessions.Complete > %w", err)
		}
		session.Status = StatusCompleted
		session.CompletedAt = &now
	}

	return &View{Session: session, Questions: questions}, nil
}

// SubmitAnswer evaluates and records one answer. Correctness is a
// case-insensitive, whitespace-trimmed exact match against the stored
// answer; scheduler state is not touched until the session completes.
func (s *Service) SubmitAnswer(ctx context.Context, instanceID string, answer string, telemetry Telemetry) (*SubmitResult, error) {
	instance, err := s.store.FindByInstanceID(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("store.FindByInstanceID(%s) > %w", instanceID, err)
	}
	if instance.SessionID == nil {
		return nil, fmt.Errorf("question instance %s has not been issued to a session", instanceID)
	}

	correctAnswer := instance.Content.CorrectAnswer()
	isCorrect := evaluateAnswer(answer, correctAnswer)

	if err := s.store.SaveAnswer(ctx, instance.ID, answer, isCorrect,
		telemetry.TimeSpentMs, telemetry.AnswerChangeCount); err != nil {
		return nil, fmt.Errorf("store.SaveAnswer(%s) > %w", instanceID, err)
	}

	return &SubmitResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: correctAnswer,
		Explanation:   instance.Content.Explanation(),
	}, nil
}

// CompleteSession folds every answered question into the scheduler and
// marks the session completed. The new scheduler states are computed first,
// then written together with the status-guarded claim in one repository
// transaction, so a session either completes with every reviewed word
// rescheduled or stays in progress for a retry.
func (s *Service) CompleteSession(ctx context.Context, sessionID int64) (*Summary, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sessions.Find(%d) > %w", sessionID, err)
	}
	if session.Status != StatusInProgress {
		return nil, ErrSessionCompleted
	}

	instances, err := s.store.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store.FindBySession(%d) > %w", sessionID, err)
	}

	correctCount := 0
	byWord := map[int64][]question.Instance{}
	var wordOrder []int64
	for _, instance := range instances {
		if !instance.Answered() {
			continue
		}
		if *instance.IsCorrect {
			correctCount++
		}
		if _, ok := byWord[instance.WordID]; !ok {
			wordOrder = append(wordOrder, instance.WordID)
		}
		byWord[instance.WordID] = append(byWord[instance.WordID], instance)
	}

	// Word locks have to span from reading the current state to the write
	// inside Complete, so a concurrent completion sharing a word cannot
	// interleave its read-modify-write. Sorted acquisition avoids deadlock.
	sort.Slice(wordOrder, func(i, j int) bool { return wordOrder[i] < wordOrder[j] })
	for _, wordID := range wordOrder {
		lock := s.wordLock(wordID)
		lock.Lock()
		defer lock.Unlock()
	}

	now := s.now()
	transitions := make(map[int64]srs.State, len(wordOrder))
	for _, wordID := range wordOrder {
		state, err := s.computeTransition(ctx, wordID, byWord[wordID], now)
		if err != nil {
			return nil, err
		}
		transitions[wordID] = state
	}

	if err := s.sessions.Complete(ctx, sessionID, correctCount, now, transitions); err != nil {
		return nil, fmt.Errorf("sessions.Complete(%d) > %w", sessionID, err)
	}

	return &Summary{
		TotalQuestions: len(instances),
		CorrectCount:   correctCount,
		Accuracy:       accuracy(correctCount, len(instances)),
		CompletedAt:    now,
	}, nil
}

// GetSession returns a session with its question list.
func (s *Service) GetSession(ctx context.Context, sessionID int64) (*View, error) {
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sessions.Find(%d) > %w", sessionID, err)
	}
	questions, err := s.store.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store.FindBySession(%d) > %w", sessionID, err)
	}
	return &View{Session: *session, Questions: questions}, nil
}

// computeTransition folds one word's answered questions into its scheduler
// state, in review order. The caller holds the word's lock.
func (s *Service) computeTransition(ctx context.Context, wordID int64, answered []question.Instance, reviewTime time.Time) (srs.State, error) {
	w, err := s.words.Find(ctx, wordID)
	if err != nil {
		return srs.State{}, fmt.Errorf("words.Find(%d) > %w", wordID, err)
	}

	state := w.SRSState()
	for _, instance := range answered {
		elapsedSeconds := 0.0
		if instance.TimeSpentMs != nil {
			elapsedSeconds = float64(*instance.TimeSpentMs) / 1000
		}
		quality := srs.QualityFromResult(*instance.IsCorrect, elapsedSeconds)
		state = srs.Transition(state, quality, elapsedSeconds, reviewTime)
	}
	return state, nil
}

func (s *Service) shuffle(questions []question.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

func (s *Service) wordLock(wordID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[wordID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[wordID] = lock
	}
	return lock
}

func evaluateAnswer(answer, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(correct))
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
