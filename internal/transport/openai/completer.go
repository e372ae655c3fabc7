package openai

import (
	"context"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/metrics"
)

// zeroTemperature is the smallest positive temperature. The client drops an
// explicit 0 from the request, which would leave the provider default in place.
const zeroTemperature = math.SmallestNonzeroFloat32

// Completer produces schema-constrained JSON completions via chat completions.
type Completer struct {
	client *openai.Client
	model  string
	stage  string
	user   string
	logger *zap.Logger
}

// NewCompleter creates a structured-output completer. stage labels its metrics.
func NewCompleter(cfg *Config, stage string) *Completer {
	return &Completer{
		client: newClient(cfg),
		model:  cfg.Model,
		stage:  stage,
		user:   cfg.User,
		logger: cfg.Logger,
	}
}

// CompleteStructured sends one system+user exchange at zero temperature with a
// strict JSON schema derived from req.Schema, and returns the raw JSON content.
func (c *Completer) CompleteStructured(ctx context.Context, req domain.StructuredRequest) (domain.Completion, error) {
	schema, err := jsonschema.GenerateSchemaForType(req.Schema)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("generate schema %s: %w", req.SchemaName, err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: zeroTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: schema,
				Strict: true,
			},
		},
		User: c.user,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.stage, c.model, "error").Inc()
		return domain.Completion{}, parseAPIError(err, "completion", domain.ErrLLMProviderError)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		metrics.LLMRequestsTotal.WithLabelValues(c.stage, c.model, "error").Inc()
		return domain.Completion{}, fmt.Errorf("empty completion: %w", domain.ErrMalformedOutput)
	}
	if resp.Choices[0].Message.Refusal != "" {
		metrics.LLMRequestsTotal.WithLabelValues(c.stage, c.model, "refused").Inc()
		return domain.Completion{}, fmt.Errorf("model refused: %s: %w", resp.Choices[0].Message.Refusal, domain.ErrMalformedOutput)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.stage, c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.stage, c.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.stage, c.model).Add(float64(resp.Usage.TotalTokens))
	}

	c.logger.Debug("Structured completion",
		zap.String("stage", c.stage),
		zap.String("schema", req.SchemaName),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", duration),
	)

	return domain.Completion{
		Content:      resp.Choices[0].Message.Content,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels.
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
