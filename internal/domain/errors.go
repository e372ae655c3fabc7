package domain

import "errors"

var (
	// ErrInvalidRequest signals an inbound search request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRetrievalFailed signals that candidates could not be read or the query could not be vectorized.
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrEvaluationUnavailable signals that every judge evaluation in a request failed.
	ErrEvaluationUnavailable = errors.New("evaluation unavailable")
	// ErrInterpretationFailed signals an unusable query interpretation.
	ErrInterpretationFailed = errors.New("interpretation failed")
	// ErrMalformedOutput signals a model response that does not match the expected schema.
	ErrMalformedOutput = errors.New("malformed model output")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrQuotaExceeded signals an exhausted token budget.
	ErrQuotaExceeded = errors.New("token quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMProviderError signals a completion provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
