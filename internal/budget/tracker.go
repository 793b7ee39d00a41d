package budget

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"sadanews/internal/model"
	"sadanews/pkg/llm"
)

// Store is the persistence surface the tracker needs. The tracker is the
// sole writer of budget rows; everything else only reads.
type Store interface {
	GetPeriod(periodType string, start time.Time) (*model.BudgetPeriod, error)
	SavePeriod(p *model.BudgetPeriod) error
}

type Limits struct {
	Daily   float64
	Weekly  float64
	Monthly float64
}

func LimitsFromEnv() Limits {
	return Limits{
		Daily:   envFloat("DAILY_BUDGET_LIMIT", 10),
		Weekly:  envFloat("WEEKLY_BUDGET_LIMIT", 50),
		Monthly: envFloat("MONTHLY_BUDGET_LIMIT", 150),
	}
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

type UsageEvent struct {
	Provider llm.Provider
	APICalls int
	Tokens   int
	Cost     float64
	Period   string
}

// Tracker accumulates per-provider usage into daily/weekly/monthly rollups.
//
// TrackUsage is a read-modify-write, not an atomic increment: two concurrent
// calls racing on the same period row can lose an update. Usage events are
// low-frequency relative to period windows, so this mirrors the simple path;
// callers needing strict accuracy should use BudgetRepository.AddUsageAtomic.
type Tracker struct {
	store  Store
	limits Limits
	now    func() time.Time
}

func NewTracker(store Store, limits Limits) *Tracker {
	return &Tracker{store: store, limits: limits, now: time.Now}
}

// PeriodWindow computes the period containing now, in now's location.
// Daily starts at local midnight, weekly at the most recent Monday, monthly
// at the first of the month. The end is start + interval minus one second,
// so 23:59:59 still belongs to the closing period and 00:00:00 to the next.
func PeriodWindow(periodType string, now time.Time) (start, end time.Time) {
	loc := now.Location()

	switch periodType {
	case model.PeriodWeekly:
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		start = time.Date(now.Year(), now.Month(), now.Day()-daysSinceMonday, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 7).Add(-time.Second)
	case model.PeriodMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Second)
	default: // daily
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1).Add(-time.Second)
	}

	return start, end
}

// GetCurrentPeriodBudget returns the aggregate row for the period containing
// now, or nil if nothing has been tracked yet this period.
func (t *Tracker) GetCurrentPeriodBudget(periodType string) (*model.BudgetPeriod, error) {
	start, _ := PeriodWindow(periodType, t.now())
	return t.store.GetPeriod(periodType, start)
}

// TrackUsage adds the event's deltas to the provider-specific and overall
// totals of the current period row, creating the row lazily on the first
// event in a window.
func (t *Tracker) TrackUsage(event UsageEvent) error {
	if !model.ValidPeriodType(event.Period) {
		return fmt.Errorf("invalid period type %q", event.Period)
	}

	start, end := PeriodWindow(event.Period, t.now())

	p, err := t.store.GetPeriod(event.Period, start)
	if err != nil {
		return err
	}
	if p == nil {
		p = &model.BudgetPeriod{PeriodType: event.Period, PeriodStart: start, PeriodEnd: end}
	}

	p.TotalAPICalls += event.APICalls
	p.TotalTokens += event.Tokens
	p.TotalCost += event.Cost

	switch event.Provider {
	case llm.ProviderOpenAI:
		addUsage(&p.OpenAI, event)
	case llm.ProviderAnthropic:
		addUsage(&p.Anthropic, event)
	case llm.ProviderGemini:
		addUsage(&p.Gemini, event)
	}

	return t.store.SavePeriod(p)
}

func addUsage(u *model.ProviderUsage, event UsageEvent) {
	u.APICalls += event.APICalls
	u.Tokens += event.Tokens
	u.Cost += event.Cost
}

// CheckBudgetStatus reports spend against the configured limit for each
// period type. Purely a read; calling it twice without an intervening
// TrackUsage returns identical figures.
func (t *Tracker) CheckBudgetStatus() ([]model.BudgetStatus, error) {
	limits := map[string]float64{
		model.PeriodDaily:   t.limits.Daily,
		model.PeriodWeekly:  t.limits.Weekly,
		model.PeriodMonthly: t.limits.Monthly,
	}

	var statuses []model.BudgetStatus
	for _, periodType := range model.PeriodTypes {
		limit := limits[periodType]

		p, err := t.GetCurrentPeriodBudget(periodType)
		if err != nil {
			return nil, err
		}

		var spent float64
		if p != nil {
			spent = p.TotalCost
		}

		status := model.BudgetStatus{
			PeriodType:   periodType,
			Limit:        limit,
			Spent:        spent,
			Remaining:    limit - spent,
			IsOverBudget: spent > limit,
		}
		if limit > 0 {
			status.Utilization = spent / limit * 100
		}
		if status.Utilization > 100 {
			status.Utilization = 100
		}
		if status.Remaining < 0 {
			status.Remaining = 0
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// RecordUsage implements llm.UsageRecorder: one successful provider call is
// tracked into all three period rollups.
func (t *Tracker) RecordUsage(ctx context.Context, provider llm.Provider, tokens int, cost float64) error {
	for _, periodType := range model.PeriodTypes {
		event := UsageEvent{Provider: provider, APICalls: 1, Tokens: tokens, Cost: cost, Period: periodType}
		if err := t.TrackUsage(event); err != nil {
			return err
		}
	}
	return nil
}
