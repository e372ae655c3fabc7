package budget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/domain"
)

func TestTracker_RejectWhenExceeded(t *testing.T) {
	bt := NewTracker("judge", 100, 0, ActionReject, zap.NewNop())

	bt.Record(100)

	err := bt.Check(context.Background())
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected domain.ErrQuotaExceeded, got %v", err)
	}
}

func TestTracker_WarnWhenExceeded(t *testing.T) {
	bt := NewTracker("judge", 100, 0, ActionWarn, zap.NewNop())

	bt.Record(200)

	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected nil error for warn action, got %v", err)
	}
}

func TestTracker_MonthlyReject(t *testing.T) {
	bt := NewTracker("judge", 0, 500, ActionReject, zap.NewNop())

	bt.Record(500)

	if err := bt.Check(context.Background()); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected domain.ErrQuotaExceeded for monthly limit, got %v", err)
	}
}

func TestTracker_UnlimitedWhenZero(t *testing.T) {
	bt := NewTracker("judge", 0, 0, ActionReject, zap.NewNop())

	bt.Record(999999999)

	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected nil error for unlimited budget, got %v", err)
	}
}

func TestTracker_Remaining(t *testing.T) {
	bt := NewTracker("judge", 1000, 10000, ActionWarn, zap.NewNop())

	bt.Record(300)

	if daily := bt.RemainingDaily(); daily != 700 {
		t.Errorf("expected daily remaining 700, got %d", daily)
	}
	if monthly := bt.RemainingMonthly(); monthly != 9700 {
		t.Errorf("expected monthly remaining 9700, got %d", monthly)
	}
}

func TestTracker_RemainingNeverNegative(t *testing.T) {
	bt := NewTracker("judge", 100, 0, ActionWarn, zap.NewNop())

	bt.Record(250)

	if daily := bt.RemainingDaily(); daily != 0 {
		t.Errorf("expected 0 remaining when overspent, got %d", daily)
	}
	if monthly := bt.RemainingMonthly(); monthly != -1 {
		t.Errorf("expected -1 for unlimited monthly, got %d", monthly)
	}
}

func TestTracker_IgnoresNonPositive(t *testing.T) {
	bt := NewTracker("judge", 100, 0, ActionWarn, zap.NewNop())

	bt.Record(0)
	bt.Record(-5)

	if bt.DailyUsed() != 0 {
		t.Errorf("expected daily_used=0, got %d", bt.DailyUsed())
	}
}

func TestTracker_DayRollover(t *testing.T) {
	bt := NewTracker("judge", 100, 1000, ActionReject, zap.NewNop())
	clock := time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC)
	bt.now = func() time.Time { return clock }
	bt.lastDayReset = truncateToDay(clock)
	bt.lastMonthReset = truncateToMonth(clock)

	bt.Record(100)
	if err := bt.Check(context.Background()); err == nil {
		t.Fatal("expected daily budget exhausted")
	}

	clock = clock.Add(2 * time.Minute) // February 1st
	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected budget reset after rollover, got %v", err)
	}
	if bt.MonthlyUsed() != 0 {
		t.Errorf("expected monthly reset on month change, got %d", bt.MonthlyUsed())
	}
}

// --- Mock Store ---

type mockStore struct {
	mu     sync.Mutex
	data   map[string]int64
	getErr error
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]int64)}
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] += val
	return nil
}

func (m *mockStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.data[key], nil
}

// --- Persistence tests ---

func TestTracker_WithStore_LoadsValues(t *testing.T) {
	store := newMockStore()

	bt := NewTracker("prov", 1000, 10000, ActionReject, zap.NewNop())
	store.data[bt.dailyKey(bt.lastDayReset)] = 300
	store.data[bt.monthlyKey(bt.lastMonthReset)] = 5000

	bt.WithStore(context.Background(), store)

	if bt.DailyUsed() != 300 {
		t.Errorf("expected daily_used=300, got %d", bt.DailyUsed())
	}
	if bt.MonthlyUsed() != 5000 {
		t.Errorf("expected monthly_used=5000, got %d", bt.MonthlyUsed())
	}
}

func TestTracker_Record_MultipleIncrements(t *testing.T) {
	store := newMockStore()
	bt := NewTracker("prov", 10000, 100000, ActionWarn, zap.NewNop())
	bt.WithStore(context.Background(), store)

	bt.Record(100)
	bt.Record(200)
	bt.Record(300)

	if bt.DailyUsed() != 600 {
		t.Errorf("expected daily_used=600, got %d", bt.DailyUsed())
	}

	store.mu.Lock()
	daily := store.data[bt.dailyKey(bt.now())]
	monthly := store.data[bt.monthlyKey(bt.now())]
	store.mu.Unlock()
	if daily != 600 || monthly != 600 {
		t.Errorf("expected store daily=600 monthly=600, got %d %d", daily, monthly)
	}
}

func TestTracker_WithStore_LoadError(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("connection refused")

	bt := NewTracker("prov", 1000, 10000, ActionReject, zap.NewNop())
	bt.WithStore(context.Background(), store)

	if bt.DailyUsed() != 0 || bt.MonthlyUsed() != 0 {
		t.Errorf("expected zero usage on load error, got %d/%d", bt.DailyUsed(), bt.MonthlyUsed())
	}
}

func TestTracker_Record_StoreWriteError(t *testing.T) {
	store := newMockStore()
	bt := NewTracker("prov", 1000, 10000, ActionWarn, zap.NewNop())
	bt.WithStore(context.Background(), store)

	store.mu.Lock()
	store.setErr = errors.New("write timeout")
	store.mu.Unlock()

	bt.Record(50)

	if bt.DailyUsed() != 50 {
		t.Errorf("expected daily_used=50 even with store error, got %d", bt.DailyUsed())
	}
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	bt := NewTracker("judge", 0, 0, ActionWarn, zap.NewNop())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bt.Record(2)
		}()
	}
	wg.Wait()

	if bt.DailyUsed() != 100 {
		t.Errorf("expected daily_used=100, got %d", bt.DailyUsed())
	}
}

func TestTracker_KeyFormat(t *testing.T) {
	bt := NewTracker("judge", 0, 0, ActionWarn, zap.NewNop())
	at := time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC)

	if got, want := bt.dailyKey(at), domain.KeyPrefix+"budget:judge:daily:2025-07-04"; got != want {
		t.Errorf("daily key = %q, want %q", got, want)
	}
	if got, want := bt.monthlyKey(at), domain.KeyPrefix+"budget:judge:monthly:2025-07"; got != want {
		t.Errorf("monthly key = %q, want %q", got, want)
	}
}
