package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
)

// ErrorCode is the machine-readable error identifier in error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest            ErrorCode = "bad_request"
	CodeValidationFailed      ErrorCode = "validation_failed"
	CodeUnauthorized          ErrorCode = "unauthorized"
	CodeQuotaExceeded         ErrorCode = "quota_exceeded"
	CodeRateLimited           ErrorCode = "rate_limited"
	CodeServiceUnavailable    ErrorCode = "service_unavailable"
	CodeEvaluationUnavailable ErrorCode = "evaluation_unavailable"
	CodeInternalError         ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// defaultErrorHandlers maps sentinels to statuses. Order matters: quota and
// rate limits surface from inside a retrieval failure, so they are checked first.
func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrQuotaExceeded, http.StatusPaymentRequired, CodeQuotaExceeded),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEvaluationUnavailable, http.StatusServiceUnavailable, CodeEvaluationUnavailable),
		sentinelHandler(domain.ErrRetrievalFailed, http.StatusServiceUnavailable, CodeServiceUnavailable),
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return err.Error()
	case errors.Is(err, domain.ErrRetrievalFailed) &&
		!errors.Is(err, domain.ErrQuotaExceeded) && !errors.Is(err, domain.ErrRateLimited):
		return "search is temporarily unavailable"
	}
	sentinels := []error{
		domain.ErrQuotaExceeded,
		domain.ErrRateLimited,
		domain.ErrEvaluationUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
