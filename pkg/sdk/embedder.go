package agentsearch

import (
	"context"
	"fmt"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
)

// Embedder converts text to vector embeddings.
// Query and profile vectors must come from the same model.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// StructuredCompleter interprets queries. It must return a single JSON object
// matching the schema described by the request.
type StructuredCompleter interface {
	CompleteStructured(ctx context.Context, req StructuredRequest) (Completion, error)
}

// Reasoner judges one candidate per call and returns a JSON assessment.
type Reasoner interface {
	Reason(ctx context.Context, system, user string) (Completion, error)
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
