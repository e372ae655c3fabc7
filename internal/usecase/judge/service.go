// Package judge scores shortlisted candidates with one reasoning call each.
package judge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/domain/verdict"
	"github.com/lighthouse-careers/agentsearch/internal/logger"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
)

// Defaults for the judge stage.
const (
	DefaultConcurrency = 5
	DefaultTimeout     = 30 * time.Second
)

// Outcome is the result of evaluating a shortlist. Explanations holds an entry
// only for candidates whose evaluation succeeded.
type Outcome struct {
	Explanations map[string]verdict.Explanation
	Attempted    int
	Failed       int
}

// AllFailed reports whether at least one evaluation ran and none succeeded.
func (o Outcome) AllFailed() bool {
	return o.Attempted > 0 && o.Failed == o.Attempted
}

// Service runs candidate evaluations on a bounded worker pool.
type Service struct {
	reasoner Reasoner
	timeout  time.Duration
	limiter  *rate.Limiter
	budget   BudgetChecker
}

// New creates a judge.
func New(reasoner Reasoner) *Service {
	return &Service{reasoner: reasoner, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-candidate call timeout. Non-positive values are ignored.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithRateLimit throttles calls to perSecond with the given burst. perSecond <= 0 disables it.
func (s *Service) WithRateLimit(perSecond float64, burst int) *Service {
	if perSecond <= 0 {
		s.limiter = nil
		return s
	}
	s.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	return s
}

// WithBudget gates every call on the completion token budget.
func (s *Service) WithBudget(b BudgetChecker) *Service {
	s.budget = b
	return s
}

// Evaluate scores every profile with at most concurrency calls in flight.
// Failed evaluations are counted and omitted; they never produce a score.
// The only error is a failure to start the worker pool.
func (s *Service) Evaluate(
	ctx context.Context, parsed query.Parsed, profiles []candidate.Retrieved, concurrency int,
) (Outcome, error) {
	out := Outcome{Explanations: make(map[string]verdict.Explanation, len(profiles))}
	if len(profiles) == 0 {
		return out, nil
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	pool, err := ants.NewPool(min(concurrency, len(profiles)))
	if err != nil {
		return Outcome{}, fmt.Errorf("create judge pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	log := logger.FromContext(ctx)

	for _, p := range profiles {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			e, err := s.evaluateOne(ctx, parsed, p.Record)

			mu.Lock()
			defer mu.Unlock()
			out.Attempted++
			if err != nil {
				out.Failed++
				reason := failureReason(err)
				metrics.JudgeFailuresTotal.WithLabelValues(reason).Inc()
				log.Warn("Candidate evaluation failed",
					zap.String("candidate_id", p.ID),
					zap.String("reason", reason),
					zap.Error(err),
				)
				return
			}
			out.Explanations[p.ID] = e
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			out.Attempted++
			out.Failed++
			mu.Unlock()
			metrics.JudgeFailuresTotal.WithLabelValues("pool").Inc()
			log.Error("Judge pool rejected task", zap.String("candidate_id", p.ID), zap.Error(err))
		}
	}
	wg.Wait()

	return out, nil
}

func (s *Service) evaluateOne(ctx context.Context, parsed query.Parsed, rec candidate.Record) (verdict.Explanation, error) {
	if s.budget != nil {
		if err := s.budget.Check(ctx); err != nil {
			return verdict.Explanation{}, fmt.Errorf("budget check: %w", err)
		}
	}
	if s.limiter != nil {
		start := time.Now()
		if err := s.limiter.Wait(ctx); err != nil {
			return verdict.Explanation{}, fmt.Errorf("rate limit wait: %w", err)
		}
		metrics.LLMRateLimitWait.Observe(time.Since(start).Seconds())
	}

	prompt, err := userPrompt(parsed, BuildDossier(rec))
	if err != nil {
		return verdict.Explanation{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	completion, err := s.reasoner.Reason(callCtx, systemPrompt, prompt)
	if err != nil {
		return verdict.Explanation{}, fmt.Errorf("reason: %w", err)
	}
	if completion.TotalTokens > 0 {
		domain.UsageFromContext(ctx).AddLLMTokens(completion.TotalTokens)
		if s.budget != nil {
			s.budget.Record(int64(completion.TotalTokens))
		}
	}
	return parseAssessment(completion.Content)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrQuotaExceeded):
		return "budget"
	case errors.Is(err, domain.ErrMalformedOutput):
		return "malformed_output"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	default:
		return "provider_error"
	}
}
