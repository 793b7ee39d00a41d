package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

func (c *GeminiClient) Invoke(ctx context.Context, prompt string, cfg ModelConfig) (*GenerationResult, error) {
	config := &genai.GenerateContentConfig{}
	if cfg.MaxTokens > 0 {
		config.MaxOutputTokens = int32(cfg.MaxTokens)
	}
	if cfg.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(cfg.Temperature))
	}

	resp, err := c.client.Models.GenerateContent(ctx, cfg.Model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	content := resp.Text()
	if content == "" {
		return nil, fmt.Errorf("no response from gemini")
	}

	result := &GenerationResult{
		Provider: ProviderGemini,
		Model:    cfg.Model,
		Content:  content,
	}
	if resp.UsageMetadata != nil {
		result.Usage = &Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return result, nil
}
