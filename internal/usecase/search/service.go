// Package search runs the four-stage candidate search pipeline and assembles the response.
package search

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	domsearch "github.com/lighthouse-careers/agentsearch/internal/domain/search"
	"github.com/lighthouse-careers/agentsearch/internal/domain/verdict"
	"github.com/lighthouse-careers/agentsearch/internal/logger"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
	"github.com/lighthouse-careers/agentsearch/internal/usecase/judge"
	"github.com/lighthouse-careers/agentsearch/internal/usecase/selection"
)

// DefaultMinFitScore is the lowest fit score returned to the caller.
const DefaultMinFitScore = 40

// Options tunes the pipeline. Zero values select the defaults. MinFitScore
// is nil for the default; an explicit 0 keeps every evaluated candidate.
type Options struct {
	ShortlistCap     int
	Concurrency      int
	MinFitScore      *int
	SuggestionSample int
}

func (o Options) withDefaults() Options {
	if o.ShortlistCap <= 0 {
		o.ShortlistCap = selection.DefaultCap
	}
	if o.Concurrency <= 0 {
		o.Concurrency = judge.DefaultConcurrency
	}
	if o.MinFitScore == nil {
		minFit := DefaultMinFitScore
		o.MinFitScore = &minFit
	}
	if o.SuggestionSample <= 0 {
		o.SuggestionSample = DefaultSuggestionSample
	}
	return o
}

// Service orchestrates interpretation, retrieval, selection and judging.
type Service struct {
	interpreter Interpreter
	embedder    Embedder
	retriever   Retriever
	judge       Judge
	suggester   PositionSuggester
	opts        Options
	now         func() time.Time
	newID       func() string
}

// New creates the pipeline.
func New(
	interpreter Interpreter, embedder Embedder, retriever Retriever,
	evaluator Judge, suggester PositionSuggester, opts Options,
) *Service {
	return &Service{
		interpreter: interpreter,
		embedder:    embedder,
		retriever:   retriever,
		judge:       evaluator,
		suggester:   suggester,
		opts:        opts.withDefaults(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Search runs the pipeline for a validated request.
// Fatal errors wrap domain.ErrRetrievalFailed or domain.ErrEvaluationUnavailable.
// An empty result is not an error: the response carries a reason and suggestions.
func (s *Service) Search(ctx context.Context, req domsearch.Request) (domsearch.Response, error) {
	start := s.now()
	id := s.newID()
	ctx, log := logger.With(ctx, zap.String("search_id", id))

	stage := s.stageTimer()

	parsed := s.interpreter.InterpretSafe(ctx, req.Query())
	stage("interpret")

	emb, err := s.embedder.Embed(ctx, req.Query())
	stage("embed")
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return domsearch.Response{}, fmt.Errorf("%w: embed query: %w", domain.ErrRetrievalFailed, err)
	}

	retrieved, err := s.retriever.Retrieve(ctx, parsed, emb.Embedding, s.opts.ShortlistCap)
	stage("retrieve")
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return domsearch.Response{}, fmt.Errorf("retrieve: %w", err)
	}
	metrics.StageSurvivors.WithLabelValues("hard_filters").Observe(float64(retrieved.Matched))
	metrics.StageSurvivors.WithLabelValues("similarity").Observe(float64(len(retrieved.Candidates)))

	resp := domsearch.Response{
		SearchID:    id,
		Results:     []domsearch.Result{},
		ParsedQuery: parsed,
		Stats:       domsearch.Stats{AfterHardFilters: retrieved.Matched},
	}

	switch {
	case retrieved.Matched == 0:
		return s.finishEmpty(ctx, req, resp, start, domsearch.NoCandidatesMatchFilters), nil
	case len(retrieved.Candidates) == 0:
		return s.finishEmpty(ctx, req, resp, start, domsearch.NoCandidatesAboveSimilarity), nil
	}

	shortlist := selection.Select(retrieved.Candidates, s.opts.ShortlistCap)
	resp.Stats.AfterVectorSearch = len(shortlist)
	metrics.StageSurvivors.WithLabelValues("shortlist").Observe(float64(len(shortlist)))

	outcome, err := s.judge.Evaluate(ctx, parsed, shortlist, s.opts.Concurrency)
	stage("judge")
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return domsearch.Response{}, fmt.Errorf("%w: %w", domain.ErrEvaluationUnavailable, err)
	}
	if outcome.AllFailed() {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		log.Error("Every candidate evaluation failed", zap.Int("attempted", outcome.Attempted))
		return domsearch.Response{}, fmt.Errorf("%w: %d of %d evaluations failed",
			domain.ErrEvaluationUnavailable, outcome.Failed, outcome.Attempted)
	}

	ranked := rank(shortlist, outcome.Explanations, *s.opts.MinFitScore)
	resp.Stats.AfterAgenticJudge = len(ranked)
	metrics.StageSurvivors.WithLabelValues("judge").Observe(float64(len(ranked)))

	if len(ranked) == 0 {
		return s.finishEmpty(ctx, req, resp, start, domsearch.NoCandidatesAboveFitThreshold), nil
	}

	resp.Results = ranked[:min(len(ranked), req.Limit())]
	resp.Total = len(resp.Results)
	resp.ElapsedMs = s.now().Sub(start).Milliseconds()

	metrics.SearchesTotal.WithLabelValues("results").Inc()
	s.logCompleted(ctx, resp, outcome)
	return resp, nil
}

// rank joins explanations onto the shortlist, keeps scores at or above
// minFit and orders by fit score. Equal scores keep shortlist order.
func rank(shortlist []candidate.Retrieved, explanations map[string]verdict.Explanation, minFit int) []domsearch.Result {
	out := make([]domsearch.Result, 0, len(explanations))
	for _, c := range shortlist {
		e, ok := explanations[c.ID]
		if !ok || e.FitScore < minFit {
			continue
		}
		out = append(out, domsearch.NewResult(c, e))
	}
	slices.SortStableFunc(out, func(a, b domsearch.Result) int {
		return cmp.Compare(b.FinalScore, a.FinalScore)
	})
	return out
}

func (s *Service) finishEmpty(
	ctx context.Context, req domsearch.Request, resp domsearch.Response,
	start time.Time, reason domsearch.NoResultsReason,
) domsearch.Response {
	resp.NoResultsReason = reason
	resp.Suggestions = s.suggest(ctx, req.Query())
	resp.ElapsedMs = s.now().Sub(start).Milliseconds()

	metrics.SearchesTotal.WithLabelValues("empty").Inc()
	metrics.NoResultsTotal.WithLabelValues(string(reason)).Inc()
	s.logCompleted(ctx, resp, judge.Outcome{})
	return resp
}

// stageTimer returns a func that observes the time since its previous call.
func (s *Service) stageTimer() func(stage string) {
	last := s.now()
	return func(stage string) {
		now := s.now()
		metrics.StageDuration.WithLabelValues(stage).Observe(now.Sub(last).Seconds())
		last = now
	}
}

func (s *Service) logCompleted(ctx context.Context, resp domsearch.Response, outcome judge.Outcome) {
	fields := []zap.Field{
		zap.String("intent", string(resp.ParsedQuery.SearchIntent)),
		zap.Bool("degraded", resp.ParsedQuery.IsDegraded()),
		zap.Int("after_hard_filters", resp.Stats.AfterHardFilters),
		zap.Int("after_vector_search", resp.Stats.AfterVectorSearch),
		zap.Int("after_agentic_judge", resp.Stats.AfterAgenticJudge),
		zap.Int("judge_failed", outcome.Failed),
		zap.Int("total", resp.Total),
		zap.Int64("elapsed_ms", resp.ElapsedMs),
	}
	if resp.NoResultsReason != "" {
		fields = append(fields, zap.String("no_results_reason", string(resp.NoResultsReason)))
	}
	logger.FromContext(ctx).Info("Search completed", fields...)
}
