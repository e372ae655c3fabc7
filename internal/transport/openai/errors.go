package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
)

// parseAPIError extracts a human-readable error from the API response and wraps
// it with the provider sentinel (and domain.ErrRateLimited on HTTP 429).
func parseAPIError(err error, kind string, wrap error) error {
	status, detail := describe(err)
	if status == 0 {
		return fmt.Errorf("%s request failed: %v: %w", kind, err, wrap)
	}
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%s API error %d: %s: %w: %w", kind, status, detail, domain.ErrRateLimited, wrap)
	}
	return fmt.Errorf("%s API error %d: %s: %w", kind, status, detail, wrap)
}

func describe(err error) (int, string) {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return reqErr.HTTPStatusCode, detail
		}
		return reqErr.HTTPStatusCode, string(reqErr.Body)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Message
	}
	return 0, ""
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
