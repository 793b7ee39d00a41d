package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sadanews/internal/model"
	"sadanews/pkg/llm"
)

const strategyPromptTemplate = `You are an editorial strategy advisor for a %s-language news desk. Recent headlines:

%s

Identify coverage gaps and suggest topics worth commissioning.

Output as JSON only, no other text:
{
  "topic_suggestions": ["topic worth covering", ...],
  "content_gaps": ["underserved area", ...],
  "strengths": ["what the coverage does well", ...],
  "confidence": 0-100
}`

type StrategyStore interface {
	SaveStrategyInsight(insight *model.StrategyInsight) error
}

type StrategyAnalyzer struct {
	ai     Generator
	store  StrategyStore
	config llm.ModelConfig
}

func NewStrategyAnalyzer(ai Generator, store StrategyStore, config llm.ModelConfig) *StrategyAnalyzer {
	return &StrategyAnalyzer{ai: ai, store: store, config: config}
}

func (a *StrategyAnalyzer) Analyze(ctx context.Context, locale string, recentTitles []string) (*model.StrategyInsight, error) {
	prompt := fmt.Sprintf(strategyPromptTemplate, locale, "- "+strings.Join(recentTitles, "\n- "))

	result, err := a.ai.Generate(ctx, prompt, a.config)
	if err != nil {
		return nil, fmt.Errorf("strategy analysis failed: %w", err)
	}

	content := llm.CleanJSONResponse(result.Content)

	var parsed struct {
		TopicSuggestions []string `json:"topic_suggestions"`
		ContentGaps      []string `json:"content_gaps"`
		Strengths        []string `json:"strengths"`
		Confidence       int      `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse strategy response: %w, content: %s", err, content)
	}

	insight := &model.StrategyInsight{
		Locale:           locale,
		TopicSuggestions: parsed.TopicSuggestions,
		ContentGaps:      parsed.ContentGaps,
		Strengths:        parsed.Strengths,
		Confidence:       clampScore(parsed.Confidence),
		ModelUsed:        result.Model,
	}

	if err := a.store.SaveStrategyInsight(insight); err != nil {
		return nil, fmt.Errorf("error saving strategy insight: %w", err)
	}

	return insight, nil
}
