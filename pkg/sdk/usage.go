package agentsearch

import (
	"context"
	"time"

	usageuc "github.com/lighthouse-careers/agentsearch/internal/usecase/usage"
)

// UsagePeriod is the budget window of a usage report.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
)

// UsageReport contains token spend per provider for a period.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Providers   []ProviderUsage
}

// ProviderUsage tracks token quota state of one provider. Remaining is -1 when unlimited.
type ProviderUsage struct {
	Name      string
	Limit     int64
	Used      int64
	Remaining int64
	Exhausted bool
}

// Usage returns a token usage report for the given period.
// Observer always records success: the underlying use-case is in-memory
// and does not produce errors.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, usageuc.Period(period))

	providers := make([]ProviderUsage, len(report.Providers))
	for i, p := range report.Providers {
		providers[i] = ProviderUsage{
			Name:      p.Name,
			Limit:     p.Limit,
			Used:      p.Used,
			Remaining: p.Remaining,
			Exhausted: p.Exhausted,
		}
	}

	return UsageReport{
		Period:      UsagePeriod(report.Period),
		PeriodStart: time.UnixMilli(report.PeriodStart).UTC(),
		PeriodEnd:   time.UnixMilli(report.PeriodEnd).UTC(),
		Providers:   providers,
	}
}

// usageUseCase is the internal interface for usage reports.
type usageUseCase interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}
