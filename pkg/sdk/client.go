package agentsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/app"
	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	domsearch "github.com/lighthouse-careers/agentsearch/internal/domain/search"
	"github.com/lighthouse-careers/agentsearch/internal/logger"
)

// Internal interfaces, substituted in tests.
type searchUseCase interface {
	Search(ctx context.Context, req domsearch.Request) (domsearch.Response, error)
}

type candidateIndexer interface {
	IndexCandidate(ctx context.Context, rec *candidate.Record) error
}

type candidateDeleter interface {
	SoftDelete(ctx context.Context, id string) error
}

// Client is the agentsearch SDK entry point.
type Client struct {
	app       *app.App
	searchSvc searchUseCase
	indexer   candidateIndexer
	deleter   candidateDeleter
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
	logger    *zap.Logger
}

// New opens the candidate store and wires the search pipeline in-process.
// The provided context is used for migrations and the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := newClientConfig()
	for _, o := range opts {
		o.apply(cc)
	}
	cc.cfg.ApplyDefaults()

	if err := cc.validate(); err != nil {
		return nil, err
	}

	log := cc.logger
	if log == nil {
		log = zap.NewNop()
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, fmt.Errorf("agentsearch: %w", err)
	}

	ov := app.Overrides{Reasoner: cc.reasoner, Interpreter: cc.interpreter}
	if cc.embedder != nil {
		ov.Embedder = &embedderAdapter{inner: cc.embedder}
	}

	a, err := app.Build(ctx, cc.cfg, log, ov)
	if err != nil {
		return nil, fmt.Errorf("agentsearch: %w", err)
	}

	return &Client{
		app:       a,
		searchSvc: a.Search,
		indexer:   a,
		deleter:   a.Candidates,
		healthSvc: a.Health,
		usageSvc:  a.Usage,
		obs:       obs,
		logger:    log,
	}, nil
}

func (cc *clientConfig) validate() error {
	if cc.cfg.Database.DSN == "" {
		return errors.New("agentsearch: sqlite DSN is required (use WithSQLite)")
	}
	if cc.embedder == nil && cc.cfg.Embedding.Model == "" {
		return errors.New("agentsearch: embedding model is required (use WithEmbeddingModel or WithEmbedder)")
	}
	if cc.interpreter == nil && cc.cfg.LLM.Interpreter.Model == "" {
		return errors.New("agentsearch: interpreter model is required (use WithInterpreterModel or WithInterpreter)")
	}
	if cc.reasoner == nil {
		if cc.cfg.LLM.Judge.Model == "" {
			return errors.New("agentsearch: judge model is required (use WithJudgeModel or WithReasoner)")
		}
		switch cc.cfg.LLM.Judge.Provider {
		case "openai", "anthropic":
		default:
			return fmt.Errorf("agentsearch: unsupported judge provider %q", cc.cfg.LLM.Judge.Provider)
		}
	}
	if f := cc.cfg.Pipeline.SimilarityFloor; f != nil && (*f < 0 || *f >= 1) {
		return fmt.Errorf("agentsearch: similarity floor must be in [0, 1), got %v", *f)
	}
	if s := cc.cfg.Pipeline.MinFitScore; s != nil && (*s < 0 || *s > 100) {
		return fmt.Errorf("agentsearch: min fit score must be in [0, 100], got %d", *s)
	}
	return nil
}

// Close releases the store and cache connections.
func (c *Client) Close() {
	if c.app != nil {
		c.app.Close()
	}
}

// Search interprets the query, retrieves and judges candidates, and returns
// the ranked shortlist. A zero limit selects DefaultLimit. An empty result is
// not an error: Response.NoResultsReason and Response.Suggestions explain it.
func (c *Client) Search(ctx context.Context, query string, limit int) (resp Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := domsearch.NewRequest(query, limit)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	ctx = c.withLogger(ctx)
	return c.searchSvc.Search(ctx, req)
}

// Upsert embeds the candidate profile and stores it, replacing any record with
// the same ID. The embedding field is overwritten.
func (c *Client) Upsert(ctx context.Context, cand *Candidate) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("upsert", start, err) }()

	if cand == nil || cand.ID == "" {
		return fmt.Errorf("%w: candidate id is required", ErrInvalidRequest)
	}
	return c.indexer.IndexCandidate(c.withLogger(ctx), cand)
}

// Delete soft-deletes a candidate. Returns ErrCandidateNotFound for unknown
// or already deleted IDs.
func (c *Client) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	return c.deleter.SoftDelete(ctx, id)
}

func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.logger == nil {
		return ctx
	}
	return logger.ContextWithLogger(ctx, c.logger)
}

// ensure the adapter satisfies the pipeline contract
var _ domain.Embedder = (*embedderAdapter)(nil)
