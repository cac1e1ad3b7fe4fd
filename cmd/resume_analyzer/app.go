package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/narrative"
	"github.com/jonathan/resume-analyzer/internal/observability"
	"github.com/jonathan/resume-analyzer/internal/profiles"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/signals"
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *observability.Metrics
	store    *profiles.Store
	analyzer *analysis.Analyzer
	closers  []func()
}

type appOptions struct {
	// NoNarrative skips the model even when an API key is configured.
	NoNarrative bool
}

// newApp wires configuration into the store, narrator and analyzer.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, logger: log, metrics: observability.NewMetrics()}

	vocab, err := signals.LoadVocabulary(cfg.Skills.VocabularyFile)
	if err != nil {
		return nil, err
	}

	w := cfg.Scoring.Weights
	scorer, err := scoring.NewScorer(vocab, scoring.Weights{
		Required:   w.Required,
		Preferred:  w.Preferred,
		Experience: w.Experience,
		Education:  w.Education,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}

	var gen narrative.Generator
	var suggester profiles.ListSuggester
	if cfg.LLM.APIKey != "" && !opts.NoNarrative {
		tier, err := llm.ParseModelTier(cfg.LLM.ModelTier)
		if err != nil {
			return nil, err
		}
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.LLM.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })

		gen = narrative.NewModelGenerator(client, tier)
		if cfg.LLM.SuggestProfiles {
			suggester = narrative.NewListSuggester(narrative.NewModelGenerator(client, llm.TierLite), cfg.LLM.Timeout)
		}
	} else {
		log.Info("narrative generation disabled", zap.Bool("api_key_set", cfg.LLM.APIKey != ""))
	}

	repo, err := a.repository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	storeOpts := []profiles.Option{profiles.WithLogger(log)}
	if suggester != nil {
		storeOpts = append(storeOpts, profiles.WithSuggester(suggester))
	}
	a.store = profiles.NewStore(repo, storeOpts...)
	if err := a.store.Seed(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to seed job profiles: %w", err)
	}

	narrator := narrative.NewNarrator(gen, narrative.Config{
		Timeout:        cfg.LLM.Timeout,
		MaxPromptChars: cfg.LLM.MaxPromptChars,
	}, log, narrative.WithMetrics(a.metrics))

	a.analyzer, err = analysis.New(analysis.Options{
		Signals:       signals.NewAnalyzer(vocab),
		Scorer:        scorer,
		Profiles:      a.store,
		Narrator:      narrator,
		MaxConcurrent: cfg.Analysis.MaxConcurrent,
		Logger:        log,
		Metrics:       a.metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// repository selects PostgreSQL when a database URL is configured, memory otherwise.
func (a *app) repository(ctx context.Context) (profiles.Repository, error) {
	if a.cfg.Database.URL == "" {
		a.logger.Info("using in-memory job profile store")
		return profiles.NewMemoryRepository(), nil
	}

	database, err := db.Connect(ctx, a.cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, database.Close)

	if a.cfg.Database.Migrate {
		if err := runMigrations(ctx, database, a.logger); err != nil {
			return nil, err
		}
	}
	a.logger.Info("using PostgreSQL job profile store")
	return profiles.NewPostgresRepository(database), nil
}

// Close releases clients and connections in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.logger.Sync()
}
