package model

import "time"

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

var PeriodTypes = []string{PeriodDaily, PeriodWeekly, PeriodMonthly}

func ValidPeriodType(periodType string) bool {
	for _, pt := range PeriodTypes {
		if pt == periodType {
			return true
		}
	}
	return false
}

// ProviderUsage is the per-provider slice of a budget period.
type ProviderUsage struct {
	APICalls int
	Tokens   int
	Cost     float64
}

// BudgetPeriod is one aggregate row per (period type, period window).
// The window is [PeriodStart, PeriodEnd] with PeriodEnd = start + interval
// minus one second.
type BudgetPeriod struct {
	ID            int64
	PeriodType    string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	TotalAPICalls int
	TotalTokens   int
	TotalCost     float64
	OpenAI        ProviderUsage
	Anthropic     ProviderUsage
	Gemini        ProviderUsage
	UpdatedAt     time.Time
}

type BudgetStatus struct {
	PeriodType   string
	Limit        float64
	Spent        float64
	Remaining    float64
	Utilization  float64
	IsOverBudget bool
}
