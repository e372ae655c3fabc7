// Package interpret turns a free-text hiring query into a structured requirement object.
package interpret

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/logger"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
)

// DefaultTimeout bounds a single interpretation call.
const DefaultTimeout = 15 * time.Second

const schemaName = "parsed_query"

// Service interprets queries with one structured completion call.
type Service struct {
	completer StructuredCompleter
	timeout   time.Duration
}

// New creates an interpreter.
func New(completer StructuredCompleter) *Service {
	return &Service{completer: completer, timeout: DefaultTimeout}
}

// WithTimeout overrides the per-call timeout. Non-positive values are ignored.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Interpret parses text into a query.Parsed. Fields the model leaves unset stay nil.
func (s *Service) Interpret(ctx context.Context, text string) (query.Parsed, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	completion, err := s.completer.CompleteStructured(callCtx, domain.StructuredRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   text,
		SchemaName:   schemaName,
		Schema:       wireQuery{},
	})
	if err != nil {
		return query.Parsed{}, fmt.Errorf("%w: %w", domain.ErrInterpretationFailed, err)
	}
	domain.UsageFromContext(ctx).AddLLMTokens(completion.TotalTokens)

	w, err := decodeWire(completion.Content)
	if err != nil {
		return query.Parsed{}, fmt.Errorf("%w: %w", domain.ErrInterpretationFailed, err)
	}
	parsed, err := w.toParsed(text)
	if err != nil {
		return query.Parsed{}, fmt.Errorf("%w: %w", domain.ErrInterpretationFailed, err)
	}
	return parsed, nil
}

// InterpretSafe never fails: any error yields query.Degraded(text).
func (s *Service) InterpretSafe(ctx context.Context, text string) query.Parsed {
	parsed, err := s.Interpret(ctx, text)
	if err == nil {
		return parsed
	}

	reason := degradeReason(err)
	metrics.InterpretDegradedTotal.WithLabelValues(reason).Inc()
	logger.FromContext(ctx).Warn("Query interpretation degraded",
		zap.String("reason", reason),
		zap.Error(err),
	)
	return query.Degraded(text)
}

func degradeReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, domain.ErrMalformedOutput):
		return "malformed_output"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	default:
		return "provider_error"
	}
}
