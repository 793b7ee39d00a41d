package llm

// USD per million tokens.
type modelPricing struct {
	input  float64
	output float64
}

var pricing = map[string]modelPricing{
	"gpt-4o":            {2.50, 10.00},
	"gpt-4o-mini":       {0.15, 0.60},
	"gpt-4.1-mini":      {0.40, 1.60},
	"claude-sonnet-4-5": {3.00, 15.00},
	"claude-haiku-4-5":  {1.00, 5.00},
	"gemini-2.5-pro":    {1.25, 10.00},
	"gemini-2.5-flash":  {0.30, 2.50},
}

// CostFor returns the dollar cost of one call. Models missing from the
// pricing table cost zero; calls and tokens are still tracked.
func CostFor(cfg ModelConfig, usage *Usage) float64 {
	if usage == nil {
		return 0
	}
	p, ok := pricing[cfg.Model]
	if !ok {
		return 0
	}
	return (float64(usage.InputTokens)*p.input + float64(usage.OutputTokens)*p.output) / 1_000_000
}
