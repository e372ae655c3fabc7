package chi

import (
	"context"

	domsearch "github.com/lighthouse-careers/agentsearch/internal/domain/search"
	healthuc "github.com/lighthouse-careers/agentsearch/internal/usecase/health"
	usageuc "github.com/lighthouse-careers/agentsearch/internal/usecase/usage"
)

// Searcher runs the candidate search pipeline.
type Searcher interface {
	Search(ctx context.Context, req domsearch.Request) (domsearch.Response, error)
}

// UsageReporter reports token spend.
type UsageReporter interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}

// HealthChecker aggregates dependency checks.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
