package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/t-yamaguchi/revoca/internal/config"
	"github.com/t-yamaguchi/revoca/internal/question"
	"github.com/t-yamaguchi/revoca/internal/question/openai"
	"github.com/t-yamaguchi/revoca/internal/question/pool"
	"github.com/t-yamaguchi/revoca/internal/review"
	"github.com/t-yamaguchi/revoca/internal/word"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load() > %w", err)
	}
	return cfg, nil
}

// newGenerator prefers the OpenAI generator and falls back to the local
// strategies when no API key is configured.
func newGenerator(cfg *config.Config, rng *rand.Rand) question.Generator {
	if cfg.OpenAI.APIKey != "" {
		return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.RetryAttempts)
	}
	return question.NewStrategyGenerator(rng)
}

func newPoolManager(cfg *config.Config, db *sqlx.DB, rng *rand.Rand) *pool.Manager {
	generator := newGenerator(cfg, rng)
	return pool.NewManager(pool.NewDBStore(db), generator, pool.Config{
		MaxPoolSize:    cfg.Review.MaxPoolSize,
		UsageThreshold: cfg.Review.UsageThreshold,
		RecycleCount:   cfg.Review.RecycleCount,
	}, rng)
}

func newReviewService(cfg *config.Config, db *sqlx.DB) *review.Service {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return review.NewService(
		word.NewDBRepository(db),
		review.NewDBSessionRepository(db),
		pool.NewDBStore(db),
		newPoolManager(cfg, db, rng),
		review.Config{
			MaxWords:         cfg.Review.MaxWords,
			QuestionsPerWord: cfg.Review.QuestionsPerWord,
		},
		rng,
	)
}
