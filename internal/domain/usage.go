package domain

import (
	"context"
	"sync"
)

type usageKey struct{}

// Usage collects token usage for a single search request.
// The handler puts a pointer into the context before calling the pipeline;
// stages add to it (judge calls do so concurrently); the handler reads it
// for response headers.
type Usage struct {
	mu              sync.Mutex
	embeddingTokens int
	llmTokens       int
	embeddingUsed   bool
}

// NewContextWithUsage returns a context with an attached usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddEmbeddingTokens records tokens consumed by the embedding provider.
// A cache hit records zero tokens but still marks the embedder as used.
func (u *Usage) AddEmbeddingTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.embeddingTokens += n
	u.embeddingUsed = true
	u.mu.Unlock()
}

// AddLLMTokens records tokens consumed by completion calls.
func (u *Usage) AddLLMTokens(n int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.llmTokens += n
	u.mu.Unlock()
}

// EmbeddingTokens returns the embedding token total and whether the embedder was called.
func (u *Usage) EmbeddingTokens() (int, bool) {
	if u == nil {
		return 0, false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.embeddingTokens, u.embeddingUsed
}

// LLMTokens returns the completion token total.
func (u *Usage) LLMTokens() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.llmTokens
}
