// Package selection shortlists retrieved candidates for evaluation.
package selection

import (
	"cmp"
	"slices"

	"github.com/lighthouse-careers/agentsearch/internal/domain/candidate"
)

// DefaultCap is the most candidates sent to the judge per search.
const DefaultCap = 30

// Select returns candidates ordered by descending similarity, truncated to limit.
// Equal similarities keep their input order. The input slice is not modified.
func Select(candidates []candidate.Retrieved, limit int) []candidate.Retrieved {
	if limit <= 0 || len(candidates) == 0 {
		return []candidate.Retrieved{}
	}
	out := slices.Clone(candidates)
	slices.SortStableFunc(out, func(a, b candidate.Retrieved) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	if len(out) > limit {
		out = out[:limit:limit]
	}
	return out
}
