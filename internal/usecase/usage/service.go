// Package usage reports token spend against the configured budgets.
package usage

import (
	"context"
	"fmt"
	"time"
)

// Period selects the budget window.
type Period string

// Supported periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period. Empty input selects PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q (want day or month)", s)
	}
}

// Provider is one provider's usage within the period. A zero Limit is unlimited
// and Remaining is then -1.
type Provider struct {
	Name      string `json:"provider"`
	Limit     int64  `json:"tokensLimit"`
	Used      int64  `json:"tokensUsed"`
	Remaining int64  `json:"tokensRemaining"`
	Exhausted bool   `json:"exhausted"`
}

// Report is the usage of every tracked provider for one period.
type Report struct {
	Period      Period     `json:"period"`
	PeriodStart int64      `json:"periodStartMs"`
	PeriodEnd   int64      `json:"periodEndMs"`
	Providers   []Provider `json:"providers"`
}

// Service handles usage reporting.
type Service struct {
	readers []BudgetReader
	now     func() time.Time
}

// New creates a Service. Nil readers are skipped; with none the report is empty (unlimited mode).
func New(readers ...BudgetReader) *Service {
	s := &Service{now: func() time.Time { return time.Now().UTC() }}
	for _, r := range readers {
		if r != nil {
			s.readers = append(s.readers, r)
		}
	}
	return s
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := s.now()
	var start, end time.Time

	switch period {
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	default:
		period = PeriodDay
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
	}

	providers := make([]Provider, 0, len(s.readers))
	for _, br := range s.readers {
		p := Provider{Name: br.Provider()}
		if period == PeriodMonth {
			p.Limit, p.Used, p.Remaining = br.MonthlyLimit(), br.MonthlyUsed(), br.RemainingMonthly()
		} else {
			p.Limit, p.Used, p.Remaining = br.DailyLimit(), br.DailyUsed(), br.RemainingDaily()
		}
		p.Exhausted = p.Limit > 0 && p.Remaining <= 0
		providers = append(providers, p)
	}

	return Report{
		Period:      period,
		PeriodStart: start.UnixMilli(),
		PeriodEnd:   end.UnixMilli(),
		Providers:   providers,
	}
}
