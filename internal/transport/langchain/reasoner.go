// Package langchain adapts langchaingo chat models to the judge's reasoning contract.
package langchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
)

const stage = "judge"

// Supported backends.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config selects and configures the chat backend.
type Config struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

// Reasoner produces JSON-mode completions from a langchaingo chat model.
type Reasoner struct {
	model     llms.Model
	modelName string
	maxTokens int
	logger    *zap.Logger
}

// New builds a Reasoner for cfg.Provider.
func New(cfg *Config) (*Reasoner, error) {
	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case ProviderOpenAI, "":
		opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithToken(cfg.APIKey), anthropic.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		model, err = anthropic.New(opts...)
	default:
		return nil, fmt.Errorf("unknown reasoning provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s model: %w", cfg.Provider, err)
	}
	return NewWithModel(model, cfg.Model, cfg.MaxTokens, cfg.Logger), nil
}

// NewWithModel wraps an already constructed model.
func NewWithModel(model llms.Model, modelName string, maxTokens int, logger *zap.Logger) *Reasoner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reasoner{model: model, modelName: modelName, maxTokens: maxTokens, logger: logger}
}

// Reason sends system and user prompts at temperature 0 in JSON mode and
// returns the response with any markdown fence removed.
func (r *Reasoner) Reason(ctx context.Context, system, user string) (domain.Completion, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	opts := []llms.CallOption{llms.WithTemperature(0), llms.WithJSONMode()}
	if r.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(r.maxTokens))
	}

	start := time.Now()
	resp, err := r.model.GenerateContent(ctx, content, opts...)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(stage, r.modelName, "error").Inc()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.Completion{}, fmt.Errorf("generate content: %w", err)
		}
		return domain.Completion{}, fmt.Errorf("generate content: %v: %w", err, domain.ErrLLMProviderError)
	}
	if resp == nil || len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(stage, r.modelName, "error").Inc()
		return domain.Completion{}, fmt.Errorf("no choices: %w", domain.ErrMalformedOutput)
	}

	choice := resp.Choices[0]
	text := StripFences(choice.Content)
	if text == "" {
		metrics.LLMRequestsTotal.WithLabelValues(stage, r.modelName, "error").Inc()
		return domain.Completion{}, fmt.Errorf("empty content: %w", domain.ErrMalformedOutput)
	}

	prompt, total := tokenUsage(choice.GenerationInfo)
	metrics.LLMRequestsTotal.WithLabelValues(stage, r.modelName, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(stage, r.modelName).Observe(duration.Seconds())
	if total > 0 {
		metrics.LLMTokensTotal.WithLabelValues(stage, r.modelName).Add(float64(total))
	}

	r.logger.Debug("Reasoning completion",
		zap.String("model", r.modelName),
		zap.Int("total_tokens", total),
		zap.Duration("duration", duration),
	)

	return domain.Completion{Content: text, PromptTokens: prompt, TotalTokens: total}, nil
}

// tokenUsage reads token counts from backend-specific generation info keys.
func tokenUsage(info map[string]any) (prompt, total int) {
	if info == nil {
		return 0, 0
	}
	prompt = intValue(info["PromptTokens"])
	total = intValue(info["TotalTokens"])
	if prompt == 0 {
		prompt = intValue(info["InputTokens"])
	}
	if total == 0 {
		total = prompt + intValue(info["CompletionTokens"]) + intValue(info["OutputTokens"])
	}
	return prompt, total
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
