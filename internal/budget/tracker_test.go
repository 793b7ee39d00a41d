package budget

import (
	"math"
	"testing"
	"time"

	"sadanews/internal/model"
	"sadanews/pkg/llm"

	"github.com/go-playground/assert/v2"
)

type fakeStore struct {
	periods map[string]*model.BudgetPeriod
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{periods: make(map[string]*model.BudgetPeriod)}
}

func storeKey(periodType string, start time.Time) string {
	return periodType + "|" + start.Format(time.RFC3339)
}

func (f *fakeStore) GetPeriod(periodType string, start time.Time) (*model.BudgetPeriod, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.periods[storeKey(periodType, start)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) SavePeriod(p *model.BudgetPeriod) error {
	cp := *p
	f.periods[storeKey(p.PeriodType, p.PeriodStart)] = &cp
	return nil
}

func fixedTracker(store Store, limits Limits, now time.Time) *Tracker {
	t := NewTracker(store, limits)
	t.now = func() time.Time { return now }
	return t
}

func TestPeriodWindow_Daily(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	start, end := PeriodWindow(model.PeriodDaily, now)

	assert.Equal(t, start, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, end, time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC))
}

func TestPeriodWindow_DailyBoundary(t *testing.T) {
	lastSecond := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	start, end := PeriodWindow(model.PeriodDaily, lastSecond)
	assert.Equal(t, start, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	if lastSecond.After(end) {
		t.Error("23:59:59 must belong to the closing period")
	}

	midnight := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	nextStart, _ := PeriodWindow(model.PeriodDaily, midnight)
	assert.Equal(t, nextStart, midnight)
}

func TestPeriodWindow_WeeklyStartsMonday(t *testing.T) {
	// 2026-03-15 is a Sunday; the week started Monday 2026-03-09.
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	start, end := PeriodWindow(model.PeriodWeekly, now)

	assert.Equal(t, start, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, start.Weekday(), time.Monday)
	assert.Equal(t, end, time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC))
}

func TestPeriodWindow_Monthly(t *testing.T) {
	now := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	start, end := PeriodWindow(model.PeriodMonthly, now)

	assert.Equal(t, start, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, end, time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC))
}

func TestTrackUsage_AccumulatesWithinPeriod(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	tracker := fixedTracker(store, Limits{Daily: 10}, now)

	event := UsageEvent{Provider: llm.ProviderOpenAI, APICalls: 1, Tokens: 500, Cost: 0.01, Period: model.PeriodDaily}
	assert.Equal(t, tracker.TrackUsage(event), nil)
	assert.Equal(t, tracker.TrackUsage(event), nil)

	p, err := tracker.GetCurrentPeriodBudget(model.PeriodDaily)
	assert.Equal(t, err, nil)
	assert.Equal(t, p.TotalAPICalls, 2)
	assert.Equal(t, p.TotalTokens, 1000)
	if math.Abs(p.TotalCost-0.02) > 1e-9 {
		t.Errorf("total cost = %v, want 0.02", p.TotalCost)
	}
	assert.Equal(t, p.OpenAI.APICalls, 2)
	assert.Equal(t, p.OpenAI.Tokens, 1000)
}

func TestTrackUsage_SeparatesProviders(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	tracker := fixedTracker(store, Limits{}, now)

	tracker.TrackUsage(UsageEvent{Provider: llm.ProviderOpenAI, APICalls: 1, Tokens: 100, Cost: 0.01, Period: model.PeriodDaily})
	tracker.TrackUsage(UsageEvent{Provider: llm.ProviderGemini, APICalls: 1, Tokens: 200, Cost: 0.02, Period: model.PeriodDaily})

	p, _ := tracker.GetCurrentPeriodBudget(model.PeriodDaily)
	assert.Equal(t, p.OpenAI.APICalls, 1)
	assert.Equal(t, p.Gemini.APICalls, 1)
	assert.Equal(t, p.Gemini.Tokens, 200)
	assert.Equal(t, p.TotalAPICalls, 2)
}

func TestTrackUsage_InvalidPeriod(t *testing.T) {
	tracker := NewTracker(newFakeStore(), Limits{})
	err := tracker.TrackUsage(UsageEvent{Provider: llm.ProviderOpenAI, APICalls: 1, Period: "hourly"})
	if err == nil {
		t.Fatal("expected error for invalid period type")
	}
}

func TestCheckBudgetStatus_Idempotent(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	tracker := fixedTracker(store, Limits{Daily: 10, Weekly: 50, Monthly: 150}, now)

	tracker.RecordUsage(nil, llm.ProviderAnthropic, 2000, 2.5)

	first, err := tracker.CheckBudgetStatus()
	assert.Equal(t, err, nil)
	second, err := tracker.CheckBudgetStatus()
	assert.Equal(t, err, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, len(first), 3)
	assert.Equal(t, first[0].Spent, 2.5)
	assert.Equal(t, first[0].Utilization, 25.0)
	assert.Equal(t, first[0].IsOverBudget, false)
}

func TestCheckBudgetStatus_OverBudget(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	tracker := fixedTracker(store, Limits{Daily: 1, Weekly: 50, Monthly: 150}, now)

	tracker.TrackUsage(UsageEvent{Provider: llm.ProviderOpenAI, APICalls: 1, Tokens: 100, Cost: 3, Period: model.PeriodDaily})

	statuses, err := tracker.CheckBudgetStatus()
	assert.Equal(t, err, nil)

	daily := statuses[0]
	assert.Equal(t, daily.PeriodType, model.PeriodDaily)
	assert.Equal(t, daily.IsOverBudget, true)
	assert.Equal(t, daily.Utilization, 100.0)
	assert.Equal(t, daily.Remaining, 0.0)
}

func TestRecordUsage_TracksAllPeriods(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	tracker := fixedTracker(store, Limits{}, now)

	assert.Equal(t, tracker.RecordUsage(nil, llm.ProviderOpenAI, 300, 0.05), nil)

	for _, periodType := range model.PeriodTypes {
		p, err := tracker.GetCurrentPeriodBudget(periodType)
		assert.Equal(t, err, nil)
		if p == nil {
			t.Fatalf("no %s period row created", periodType)
		}
		assert.Equal(t, p.TotalTokens, 300)
		assert.Equal(t, p.OpenAI.APICalls, 1)
	}
}
