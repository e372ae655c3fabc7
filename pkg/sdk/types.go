package agentsearch

import (
	"github.com/lighthouse-careers/agentsearch/internal/domain"
	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/query"
	domsearch "github.com/lighthouse-careers/agentsearch/internal/domain/search"
	"github.com/lighthouse-careers/agentsearch/internal/domain/verdict"
)

// Candidate profile types.
type (
	Candidate        = candidate.Record
	PositionHeld     = candidate.PositionHeld
	Certification    = candidate.Certification
	Language         = candidate.Language
	VesselExperience = candidate.VesselExperience
)

// Search result types.
type (
	Response        = domsearch.Response
	Result          = domsearch.Result
	Stats           = domsearch.Stats
	NoResultsReason = domsearch.NoResultsReason
	ParsedQuery     = query.Parsed
	Explanation     = verdict.Explanation
	Verdict         = verdict.Verdict
)

// Completion provider types.
type (
	StructuredRequest = domain.StructuredRequest
	Completion        = domain.Completion
)

// Search request limits.
const (
	DefaultLimit   = domsearch.DefaultLimit
	MaxLimit       = domsearch.MaxLimit
	MaxQueryLength = domsearch.MaxQueryLength
)

// Pipeline tunes search thresholds. Zero counts select the defaults.
// A nil threshold selects its default (0.30 and 40); an explicit 0 disables it.
type Pipeline struct {
	SimilarityFloor  *float64
	FetchMultiplier  int
	ShortlistCap     int
	JudgeConcurrency int
	MinFitScore      *int
}

// Budget limits token spend. Zero limits are unlimited. Reject blocks calls
// once a limit is reached; otherwise exceeding it only logs a warning.
type Budget struct {
	DailyTokens   int64
	MonthlyTokens int64
	Reject        bool
}
