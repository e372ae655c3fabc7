package retrieve

import (
	"context"

	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
	"github.com/lighthouse-careers/agentsearch/internal/domain/search/filter"
)

// CandidateStore reads eligible candidates matching a hard-filter expression.
type CandidateStore interface {
	FindEligible(ctx context.Context, expr filter.Expression, limit int) ([]candidate.Record, error)
}
