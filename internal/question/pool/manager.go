package pool

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/t-yamaguchi/revoca/internal/question"
	"github.com/t-yamaguchi/revoca/internal/word"
)

// Config holds the pool tuning knobs. The defaults are empirical values
// carried over from production use; treat them as starting points.
type Config struct {
	// MaxPoolSize bounds the reusable instances kept per word.
	MaxPoolSize int
	// UsageThreshold is the number of uses after which an instance is
	// considered exhausted.
	UsageThreshold int
	// RecycleCount is the maximum number of exhausted instances whose
	// usage counter is reset when a fresh instance joins the pool.
	RecycleCount int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxPoolSize:    5,
		UsageThreshold: 3,
		RecycleCount:   2,
	}
}

// Manager decides, per acquire call, whether to reuse a cached question
// instance or to synthesize a fresh one, and keeps the per-word pool bounded.
type Manager struct {
	store     Store
	generator question.Generator
	config    Config

	mu    sync.Mutex
	rng   *rand.Rand
	locks map[int64]*sync.Mutex
}

// NewManager creates a Manager. The random source drives weighted reuse and
// recycle sampling; inject a seeded one in tests.
func NewManager(store Store, generator question.Generator, config Config, rng *rand.Rand) *Manager {
	if config.MaxPoolSize <= 0 {
		config.MaxPoolSize = DefaultConfig().MaxPoolSize
	}
	if config.UsageThreshold <= 0 {
		config.UsageThreshold = DefaultConfig().UsageThreshold
	}
	if config.RecycleCount < 0 {
		config.RecycleCount = DefaultConfig().RecycleCount
	}
	return &Manager{
		store:     store,
		generator: generator,
		config:    config,
		rng:       rng,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// Acquire returns up to count question instances issued to the given
// session, preferring the persistent pool over fresh generation. A
// generation failure propagates as a *question.GenerationError without
// corrupting pool state, so the caller can skip the word for this session.
func (m *Manager) Acquire(ctx context.Context, w *word.Word, sessionID int64, count int, distractors []word.Word) ([]question.Instance, error) {
	lock := m.wordLock(w.ID)
	lock.Lock()
	defer lock.Unlock()

	poolInstances, err := m.store.FindPool(ctx, w.ID)
	if err != nil {
		return nil, fmt.Errorf("store.FindPool(%d) > %w", w.ID, err)
	}

	issued := make([]question.Instance, 0, count)
	for len(issued) < count {
		template, reused, err := m.nextTemplate(ctx, w, distractors, &poolInstances)
		if err != nil {
			return issued, err
		}

		instance, err := m.issue(ctx, template, sessionID)
		if err != nil {
			return issued, err
		}
		issued = append(issued, *instance)

		slog.Default().Debug("issued question instance",
			"word", w.Text,
			"type", template.QuestionType,
			"reused", reused,
			"usageCount", template.UsageCount)
	}
	return issued, nil
}

// PreGenerate fills a word's pool with up to count varied instances without
// issuing them to any session. Existing pool capacity is respected.
func (m *Manager) PreGenerate(ctx context.Context, w *word.Word, count int, distractors []word.Word) (int, error) {
	lock := m.wordLock(w.ID)
	lock.Lock()
	defer lock.Unlock()

	poolInstances, err := m.store.FindPool(ctx, w.ID)
	if err != nil {
		return 0, fmt.Errorf("store.FindPool(%d) > %w", w.ID, err)
	}

	free := m.config.MaxPoolSize - len(poolInstances)
	if free <= 0 {
		return 0, nil
	}
	if count > free {
		count = free
	}

	variety, ok := m.generator.(interface {
		SynthesizeVariety(ctx context.Context, w *word.Word, difficulty question.Difficulty, distractors []word.Word, count int) ([]question.Snapshot, error)
	})

	difficulty := question.DifficultyForWord(w)
	var snapshots []question.Snapshot
	if ok {
		snapshots, err = variety.SynthesizeVariety(ctx, w, difficulty, distractors, count)
	} else {
		for i := 0; i < count; i++ {
			var snapshot question.Snapshot
			snapshot, err = m.generator.Synthesize(ctx, w, difficulty, distractors)
			if err != nil {
				break
			}
			snapshots = append(snapshots, snapshot)
		}
	}
	if err != nil {
		return 0, &question.GenerationError{WordID: w.ID, Err: err}
	}

	created := 0
	for _, snapshot := range snapshots {
		instance := newPoolInstance(w.ID, snapshot)
		// Pre-generated instances have not been used yet.
		instance.UsageCount = 0
		if err := m.store.Create(ctx, instance); err != nil {
			return created, fmt.Errorf("store.Create(pool instance) > %w", err)
		}
		created++
	}
	return created, nil
}

// nextTemplate picks a reusable pool instance or generates a fresh one,
// applying the eviction and recycle policy on the generation path.
func (m *Manager) nextTemplate(ctx context.Context, w *word.Word, distractors []word.Word, poolInstances *[]question.Instance) (*question.Instance, bool, error) {
	candidates := make([]*question.Instance, 0, len(*poolInstances))
	for i := range *poolInstances {
		if (*poolInstances)[i].UsageCount < m.config.UsageThreshold {
			candidates = append(candidates, &(*poolInstances)[i])
		}
	}

	if len(candidates) > 0 {
		template := m.weightedPick(candidates)
		template.UsageCount++
		if err := m.store.UpdateUsageCount(ctx, template.ID, template.UsageCount); err != nil {
			return nil, false, fmt.Errorf("store.UpdateUsageCount(%d) > %w", template.ID, err)
		}
		return template, true, nil
	}

	// Pool exhausted: synthesize before touching pool state so a failure
	// leaves nothing half-done.
	snapshot, err := m.generator.Synthesize(ctx, w, question.DifficultyForWord(w), distractors)
	if err != nil {
		genErr := &question.GenerationError{WordID: w.ID, Err: err}
		slog.Default().Warn("question generation failed, skipping word",
			"word", w.Text, "error", err)
		return nil, false, genErr
	}

	if len(*poolInstances) >= m.config.MaxPoolSize {
		oldest := (*poolInstances)[0]
		if err := m.store.Delete(ctx, oldest.ID); err != nil {
			return nil, false, fmt.Errorf("store.Delete(%d) > %w", oldest.ID, err)
		}
		*poolInstances = (*poolInstances)[1:]
	}

	// Recycle a small random subset so the newcomer is not the sole
	// candidate on the next cycle.
	if err := m.recycle(ctx, poolInstances); err != nil {
		return nil, false, err
	}

	template := newPoolInstance(w.ID, snapshot)
	if err := m.store.Create(ctx, template); err != nil {
		return nil, false, fmt.Errorf("store.Create(pool instance) > %w", err)
	}
	*poolInstances = append(*poolInstances, *template)
	return &(*poolInstances)[len(*poolInstances)-1], false, nil
}

// weightedPick selects a candidate with probability proportional to
// 1/(usageCount+1), so under-used instances come up disproportionately often.
func (m *Manager) weightedPick(candidates []*question.Instance) *question.Instance {
	total := 0.0
	for _, c := range candidates {
		total += 1 / float64(c.UsageCount+1)
	}

	m.mu.Lock()
	target := m.rng.Float64() * total
	m.mu.Unlock()

	for _, c := range candidates {
		target -= 1 / float64(c.UsageCount+1)
		if target <= 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

func (m *Manager) recycle(ctx context.Context, poolInstances *[]question.Instance) error {
	if m.config.RecycleCount == 0 || len(*poolInstances) == 0 {
		return nil
	}

	m.mu.Lock()
	order := m.rng.Perm(len(*poolInstances))
	m.mu.Unlock()

	var ids []int64
	for _, i := range order {
		if len(ids) == m.config.RecycleCount {
			break
		}
		ids = append(ids, (*poolInstances)[i].ID)
		(*poolInstances)[i].UsageCount = 0
	}
	if err := m.store.ResetUsageCounts(ctx, ids); err != nil {
		return fmt.Errorf("store.ResetUsageCounts() > %w", err)
	}
	return nil
}

// issue snapshots a pool template into a session-bound instance. The copy is
// what the learner answers; the template stays in the reusable pool.
func (m *Manager) issue(ctx context.Context, template *question.Instance, sessionID int64) (*question.Instance, error) {
	instance := &question.Instance{
		InstanceID:   uuid.NewString(),
		WordID:       template.WordID,
		SessionID:    &sessionID,
		QuestionType: template.QuestionType,
		Difficulty:   template.Difficulty,
		Content:      template.Content,
		UsageCount:   1,
	}
	if err := m.store.Create(ctx, instance); err != nil {
		return nil, fmt.Errorf("store.Create(session instance) > %w", err)
	}
	return instance, nil
}

func newPoolInstance(wordID int64, snapshot question.Snapshot) *question.Instance {
	return &question.Instance{
		InstanceID:   uuid.NewString(),
		WordID:       wordID,
		QuestionType: snapshot.Type,
		Difficulty:   snapshot.Difficulty,
		Content:      snapshot.Content,
		// Generation counts as the first use.
		UsageCount: 1,
	}
}

// wordLock returns the mutex guarding one word's pool mutations.
func (m *Manager) wordLock(wordID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[wordID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[wordID] = lock
	}
	return lock
}
