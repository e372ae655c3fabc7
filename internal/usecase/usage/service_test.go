package usage

import (
	"context"
	"testing"
	"time"
)

// --- Mock ---

type mockBudgetReader struct {
	provider         string
	dailyLimit       int64
	monthlyLimit     int64
	dailyUsed        int64
	monthlyUsed      int64
	remainingDaily   int64
	remainingMonthly int64
}

func (m *mockBudgetReader) Provider() string        { return m.provider }
func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.remainingDaily }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.remainingMonthly }

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestService(readers ...BudgetReader) *Service {
	s := New(readers...)
	s.now = func() time.Time { return fixedNow }
	return s
}

// --- Tests ---

func TestGetReport_DailyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		provider:         "embedding",
		dailyLimit:       10000,
		dailyUsed:        3000,
		remainingDaily:   7000,
		monthlyLimit:     100000,
		monthlyUsed:      50000,
		remainingMonthly: 50000,
	}
	r := newTestService(br).GetReport(context.Background(), PeriodDay)

	if r.Period != PeriodDay {
		t.Errorf("expected period %q, got %q", PeriodDay, r.Period)
	}
	dayStart := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart != dayStart.UnixMilli() {
		t.Errorf("expected period start %d, got %d", dayStart.UnixMilli(), r.PeriodStart)
	}
	if r.PeriodEnd != dayStart.Add(24*time.Hour).UnixMilli() {
		t.Errorf("unexpected period end %d", r.PeriodEnd)
	}
	if len(r.Providers) != 1 {
		t.Fatalf("expected 1 provider, got %d", len(r.Providers))
	}
	p := r.Providers[0]
	if p.Name != "embedding" || p.Limit != 10000 || p.Used != 3000 || p.Remaining != 7000 || p.Exhausted {
		t.Errorf("unexpected provider usage %+v", p)
	}
}

func TestGetReport_MonthlyPeriod(t *testing.T) {
	br := &mockBudgetReader{
		provider:         "llm",
		monthlyLimit:     100000,
		monthlyUsed:      100000,
		remainingMonthly: 0,
	}
	r := newTestService(br).GetReport(context.Background(), PeriodMonth)

	monthStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if r.PeriodStart != monthStart.UnixMilli() {
		t.Errorf("expected period start %d, got %d", monthStart.UnixMilli(), r.PeriodStart)
	}
	if r.PeriodEnd != time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("unexpected period end %d", r.PeriodEnd)
	}
	if !r.Providers[0].Exhausted {
		t.Error("expected exhausted budget")
	}
}

func TestGetReport_UnlimitedNotExhausted(t *testing.T) {
	br := &mockBudgetReader{provider: "embedding", dailyUsed: 500, remainingDaily: -1}
	r := newTestService(br).GetReport(context.Background(), PeriodDay)
	if r.Providers[0].Exhausted {
		t.Error("unlimited budget must never be exhausted")
	}
}

func TestGetReport_NoReaders(t *testing.T) {
	r := newTestService(nil).GetReport(context.Background(), PeriodDay)
	if len(r.Providers) != 0 {
		t.Errorf("expected no providers, got %v", r.Providers)
	}
	if r.Providers == nil {
		t.Error("providers must serialize as an empty list")
	}
}

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]Period{"": PeriodDay, "day": PeriodDay, "month": PeriodMonth} {
		got, err := ParsePeriod(in)
		if err != nil || got != want {
			t.Errorf("ParsePeriod(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePeriod("week"); err == nil {
		t.Error("expected error for unknown period")
	}
}
