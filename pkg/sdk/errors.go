package agentsearch

import (
	"github.com/lighthouse-careers/agentsearch/internal/db"
	"github.com/lighthouse-careers/agentsearch/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrRetrievalFailed        = domain.ErrRetrievalFailed
	ErrEvaluationUnavailable  = domain.ErrEvaluationUnavailable
	ErrRateLimited            = domain.ErrRateLimited
	ErrQuotaExceeded          = domain.ErrQuotaExceeded
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrLLMProviderError       = domain.ErrLLMProviderError
	ErrCandidateNotFound      = db.ErrNotFound
)
