package search

import (
	"context"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	"github.com/lighthouse-careers/agentsearch/internal/usecase/judge"
	"github.com/lighthouse-careers/agentsearch/internal/usecase/retrieve"
)

// Interpreter turns query text into requirements and never fails.
type Interpreter interface {
	InterpretSafe(ctx context.Context, text string) query.Parsed
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Retriever applies hard filters and the similarity floor.
type Retriever interface {
	Retrieve(ctx context.Context, parsed query.Parsed, queryEmbedding []float32, maxResults int) (retrieve.Result, error)
}

// Judge scores a shortlist.
type Judge interface {
	Evaluate(ctx context.Context, parsed query.Parsed, profiles []candidate.Retrieved, concurrency int) (judge.Outcome, error)
}

// PositionSuggester proposes alternative positions when a search comes back empty.
type PositionSuggester interface {
	PositionsMatching(ctx context.Context, words []string, limit int) ([]string, error)
	FrequentPositions(ctx context.Context, sample, limit int) ([]string, error)
}
