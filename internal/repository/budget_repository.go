package repository

import (
	"database/sql"
	"fmt"
	"time"

	"sadanews/internal/model"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) GetPeriod(periodType string, start time.Time) (*model.BudgetPeriod, error) {
	var p model.BudgetPeriod
	err := r.db.QueryRow(`
		SELECT id, period_type, period_start, period_end, total_api_calls, total_tokens, total_cost,
		       openai_calls, openai_tokens, openai_cost,
		       anthropic_calls, anthropic_tokens, anthropic_cost,
		       gemini_calls, gemini_tokens, gemini_cost,
		       updated_at
		FROM budget_period
		WHERE period_type = $1 AND period_start = $2
	`, periodType, start).Scan(&p.ID, &p.PeriodType, &p.PeriodStart, &p.PeriodEnd,
		&p.TotalAPICalls, &p.TotalTokens, &p.TotalCost,
		&p.OpenAI.APICalls, &p.OpenAI.Tokens, &p.OpenAI.Cost,
		&p.Anthropic.APICalls, &p.Anthropic.Tokens, &p.Anthropic.Cost,
		&p.Gemini.APICalls, &p.Gemini.Tokens, &p.Gemini.Cost,
		&p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// SavePeriod upserts the full aggregate row. This is the read-modify-write
// path used by the tracker; see AddUsageAtomic for the strict alternative.
func (r *BudgetRepository) SavePeriod(p *model.BudgetPeriod) error {
	return r.db.QueryRow(`
		INSERT INTO budget_period(period_type, period_start, period_end, total_api_calls, total_tokens, total_cost,
			openai_calls, openai_tokens, openai_cost,
			anthropic_calls, anthropic_tokens, anthropic_cost,
			gemini_calls, gemini_tokens, gemini_cost,
			updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (period_type, period_start) DO UPDATE SET
			total_api_calls = EXCLUDED.total_api_calls,
			total_tokens = EXCLUDED.total_tokens,
			total_cost = EXCLUDED.total_cost,
			openai_calls = EXCLUDED.openai_calls,
			openai_tokens = EXCLUDED.openai_tokens,
			openai_cost = EXCLUDED.openai_cost,
			anthropic_calls = EXCLUDED.anthropic_calls,
			anthropic_tokens = EXCLUDED.anthropic_tokens,
			anthropic_cost = EXCLUDED.anthropic_cost,
			gemini_calls = EXCLUDED.gemini_calls,
			gemini_tokens = EXCLUDED.gemini_tokens,
			gemini_cost = EXCLUDED.gemini_cost,
			updated_at = NOW()
		RETURNING id
	`, p.PeriodType, p.PeriodStart, p.PeriodEnd, p.TotalAPICalls, p.TotalTokens, p.TotalCost,
		p.OpenAI.APICalls, p.OpenAI.Tokens, p.OpenAI.Cost,
		p.Anthropic.APICalls, p.Anthropic.Tokens, p.Anthropic.Cost,
		p.Gemini.APICalls, p.Gemini.Tokens, p.Gemini.Cost).Scan(&p.ID)
}

// AddUsageAtomic applies the deltas in a single statement so concurrent
// writers on the same period row cannot lose updates. Callers that need
// strict accounting under high concurrency should use this instead of the
// tracker's default read-modify-write path.
func (r *BudgetRepository) AddUsageAtomic(periodType string, start, end time.Time, provider string, calls, tokens int, cost float64) error {
	var prefix string
	switch provider {
	case "openai":
		prefix = "openai"
	case "anthropic":
		prefix = "anthropic"
	case "gemini":
		prefix = "gemini"
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}

	query := fmt.Sprintf(`
		INSERT INTO budget_period(period_type, period_start, period_end, total_api_calls, total_tokens, total_cost,
			%[1]s_calls, %[1]s_tokens, %[1]s_cost, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $4, $5, $6, NOW())
		ON CONFLICT (period_type, period_start) DO UPDATE SET
			total_api_calls = budget_period.total_api_calls + $4,
			total_tokens = budget_period.total_tokens + $5,
			total_cost = budget_period.total_cost + $6,
			%[1]s_calls = budget_period.%[1]s_calls + $4,
			%[1]s_tokens = budget_period.%[1]s_tokens + $5,
			%[1]s_cost = budget_period.%[1]s_cost + $6,
			updated_at = NOW()
	`, prefix)

	_, err := r.db.Exec(query, periodType, start, end, calls, tokens, cost)
	return err
}
