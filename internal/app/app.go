// Package app assembles the search pipeline from configuration.
// The HTTP server and the embedded client share this composition root.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/config"
	dbRedis "github.com/lighthouse-careers/agentsearch/internal/db/redis"
	"github.com/lighthouse-careers/agentsearch/internal/db/sqlite"
	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/vector"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
	budgetrepo "github.com/lighthouse-careers/agentsearch/internal/repository/budget"
	candrepo "github.com/lighthouse-careers/agentsearch/internal/repository/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/repository/embcache"
	"github.com/lighthouse-careers/agentsearch/internal/transport/langchain"
	openaiTransport "github.com/lighthouse-careers/agentsearch/internal/transport/openai"
	"github.com/lighthouse-careers/agentsearch/internal/usecase/budget"
	embeddinguc "github.com/lighthouse-careers/agentsearch/internal/usecase/embedding"
	healthuc "github.com/lighthouse-careers/agentsearch/internal/usecase/health"
	"github.com/lighthouse-careers/agentsearch/internal/usecase/interpret"
	"github.com/lighthouse-careers/agentsearch/internal/usecase/judge"
	"github.com/lighthouse-careers/agentsearch/internal/usecase/retrieve"
	searchuc "github.com/lighthouse-careers/agentsearch/internal/usecase/search"
	usageuc "github.com/lighthouse-careers/agentsearch/internal/usecase/usage"
)

// Budget provider names, also used as budget counter keys.
const (
	BudgetEmbedding = "embedding"
	BudgetLLM       = "llm"
)

// Overrides replace the providers built from configuration. Nil fields are built from config.
type Overrides struct {
	Embedder    domain.Embedder
	Interpreter interpret.StructuredCompleter
	Reasoner    judge.Reasoner
}

// App holds the wired services.
type App struct {
	DB         *sqlite.DB
	Cache      *dbRedis.Store // nil when no cache is configured
	Candidates *candrepo.Repo
	Search     *searchuc.Service
	Health     *healthuc.Service
	Usage      *usageuc.Service

	documentEmbedder domain.Embedder
}

// Build opens the stores and wires the pipeline.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger, ov Overrides) (_ *App, err error) {
	metrics.RegisterAll()

	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.DB, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open candidate store: %w", err)
	}
	if cfg.Database.RunMigrations {
		if err := a.DB.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("migrate candidate store: %w", err)
		}
	}
	a.Candidates = candrepo.New(a.DB)

	if cfg.Cache.Enabled() {
		a.Cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Cache.Addrs,
			Password:   cfg.Cache.Password,
			ClientName: "agentsearch",
		})
		if err != nil {
			return nil, fmt.Errorf("create cache: %w", err)
		}
		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := a.Cache.WaitForReady(ctx, timeout); err != nil {
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	embBudget := a.tracker(ctx, BudgetEmbedding, cfg.Embedding.Budget, logger)
	llmBudget := a.tracker(ctx, BudgetLLM, cfg.LLM.Budget, logger)

	base := ov.Embedder
	if base == nil {
		base = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
	}
	queryEmbedder := a.embedderChain(base, cfg, cfg.Embedding.QueryInstruction, embBudget, logger)
	a.documentEmbedder = a.embedderChain(base, cfg, cfg.Embedding.DocumentInstruction, embBudget, logger)

	completer := ov.Interpreter
	if completer == nil {
		completer = openaiTransport.NewCompleter(&openaiTransport.Config{
			APIKey:   cfg.LLM.Interpreter.APIKey,
			BaseURL:  cfg.LLM.Interpreter.BaseURL,
			Model:    cfg.LLM.Interpreter.Model,
			Provider: cfg.LLM.Interpreter.Provider,
			Logger:   logger,
		}, "interpret")
	}

	reasoner := ov.Reasoner
	if reasoner == nil {
		reasoner, err = langchain.New(&langchain.Config{
			Provider:  cfg.LLM.Judge.Provider,
			APIKey:    cfg.LLM.Judge.APIKey,
			BaseURL:   cfg.LLM.Judge.BaseURL,
			Model:     cfg.LLM.Judge.Model,
			MaxTokens: cfg.LLM.Judge.MaxTokens,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create judge model: %w", err)
		}
	}

	interpreter := interpret.New(completer).
		WithTimeout(time.Duration(cfg.LLM.Interpreter.TimeoutSec) * time.Second)

	retriever := retrieve.New(a.Candidates).WithFetchMultiplier(cfg.Pipeline.FetchMultiplier)
	if f := cfg.Pipeline.SimilarityFloor; f != nil {
		retriever = retriever.WithSimilarityFloor(*f)
	}

	evaluator := judge.New(reasoner).
		WithTimeout(time.Duration(cfg.LLM.Judge.TimeoutSec)*time.Second).
		WithRateLimit(cfg.LLM.RateLimit.RequestsPerSecond, cfg.LLM.RateLimit.Burst).
		WithBudget(llmBudget)

	a.Search = searchuc.New(interpreter, queryEmbedder, retriever, evaluator, a.Candidates, searchuc.Options{
		ShortlistCap:     cfg.Pipeline.ShortlistCap,
		Concurrency:      cfg.Pipeline.JudgeConcurrency,
		MinFitScore:      cfg.Pipeline.MinFitScore,
		SuggestionSample: cfg.Pipeline.SuggestionSample,
	})

	var embChecker healthuc.ProviderChecker
	if hc, ok := base.(healthuc.ProviderChecker); ok {
		embChecker = hc
	}
	a.Health = healthuc.New(a.DB, embChecker)
	if a.Cache != nil {
		a.Health = a.Health.WithCache(a.Cache)
	}
	if hc, ok := completer.(healthuc.ProviderChecker); ok {
		a.Health = a.Health.WithLLM(hc)
	}

	a.Usage = usageuc.New(embBudget, llmBudget)

	logger.Info("Search pipeline ready",
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("interpreter_model", cfg.LLM.Interpreter.Model),
		zap.String("judge_provider", cfg.LLM.Judge.Provider),
		zap.String("judge_model", cfg.LLM.Judge.Model),
		zap.Bool("cache", a.Cache != nil),
	)
	return a, nil
}

// tracker creates a budget tracker, persisted in the cache when one is configured.
// Unlimited trackers still count spend for the usage report.
func (a *App) tracker(ctx context.Context, provider string, cfg config.BudgetConfig, logger *zap.Logger) *budget.Tracker {
	action := budget.ActionWarn
	if cfg.Action == string(budget.ActionReject) {
		action = budget.ActionReject
	}
	t := budget.NewTracker(provider, cfg.DailyTokenLimit, cfg.MonthlyTokenLimit, action, logger)
	if a.Cache != nil {
		t = t.WithStore(ctx, budgetrepo.New(a.Cache, 0, 0))
	}
	return t
}

// embedderChain assembles the decorator chain: provider -> cache -> instrumented -> instruction.
// The instruction is outermost so cache keys include it.
func (a *App) embedderChain(
	base domain.Embedder, cfg config.Config, instruction string,
	tracker *budget.Tracker, logger *zap.Logger,
) domain.Embedder {
	embedder := base
	if a.Cache != nil {
		namespace := fmt.Sprintf("%s:%d", cfg.Embedding.Model, cfg.Embedding.Dimensions)
		ttl := time.Duration(cfg.Cache.EmbeddingTTLHour) * time.Hour
		embedder = embcache.New(embedder, a.Cache, namespace, ttl, metrics.EmbeddingCacheTotal, logger)
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Embedding.Provider, cfg.Embedding.Model, tracker, logger)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

// IndexCandidate embeds the profile text and stores the record.
func (a *App) IndexCandidate(ctx context.Context, rec *candidate.Record) error {
	text := rec.ProfileText()
	if text == "" {
		return errors.New("candidate profile is empty")
	}
	res, err := a.documentEmbedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed candidate %s: %w", rec.ID, err)
	}
	if vector.Magnitude(res.Embedding) == 0 {
		return fmt.Errorf("embed candidate %s: zero-magnitude vector", rec.ID)
	}
	rec.Embedding = vector.Encode(res.Embedding)
	if err := a.Candidates.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("store candidate: %w", err)
	}
	return nil
}

// Close releases the stores.
func (a *App) Close() {
	if a.Cache != nil {
		a.Cache.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
