// Package search defines the inbound request and the response of a candidate search.
package search

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Request limits.
const (
	// MaxQueryLength is counted in characters, not bytes.
	MaxQueryLength = 500
	DefaultLimit   = 20
	MaxLimit       = 50
)

// Request is a validated search query.
type Request struct {
	query string
	limit int
}

// NewRequest validates search parameters. A zero limit selects DefaultLimit.
func NewRequest(query string, limit int) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if n := utf8.RuneCountInString(query); n > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (%d chars, max %d)", n, MaxQueryLength)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return Request{}, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	return Request{query: query, limit: limit}, nil
}

// Query returns the search text.
func (r Request) Query() string { return r.query }

// Limit returns the maximum number of results.
func (r Request) Limit() int { return r.limit }
