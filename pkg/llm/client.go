package llm

import "context"

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ModelConfig selects a provider and model for a single call. Zero values
// for MaxTokens and Temperature mean "use the provider default".
type ModelConfig struct {
	Provider    Provider
	Model       string
	MaxTokens   int
	Temperature float64
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// GenerationResult is the uniform response envelope produced by exactly one
// adapter invocation. Error set and Content empty signal failure; the two are
// never both populated.
type GenerationResult struct {
	Provider Provider
	Model    string
	Content  string
	Usage    *Usage
	Error    string
}

// Client is implemented by one adapter per AI backend. An adapter flattens
// the prompt into a single user-role message, never retries internally, and
// translates provider-specific errors into a plain error return.
type Client interface {
	Invoke(ctx context.Context, prompt string, cfg ModelConfig) (*GenerationResult, error)
	Provider() Provider
}
