package judge

import (
	"context"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
)

// Reasoner returns a JSON object answering the judge prompt.
type Reasoner interface {
	Reason(ctx context.Context, system, user string) (domain.Completion, error)
}

// BudgetChecker gates calls on the completion token budget.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
}
