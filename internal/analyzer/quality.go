package analyzer

import (
	"context"
	"encoding/json"
	"fmt"

	"sadanews/internal/model"
	"sadanews/pkg/llm"
)

// QualityPassThreshold is the minimum overall score for a passing check.
const QualityPassThreshold = 70

const qualityPromptTemplate = `You are an editorial quality reviewer. Score the following article on each dimension from 0 to 100.

Title: %s
Content:
%s

Output as JSON only, no other text:
{
  "accuracy": 0-100,
  "readability": 0-100,
  "structure": 0-100,
  "relevance": 0-100,
  "issues": ["problem found", ...],
  "suggestions": ["improvement", ...],
  "strengths": ["what works well", ...]
}`

type Generator interface {
	Generate(ctx context.Context, prompt string, cfg llm.ModelConfig) (*llm.GenerationResult, error)
}

type QualityStore interface {
	SaveQualityCheck(check *model.QualityCheck) error
}

// QualityAnalyzer turns one generation call into a structured quality score.
// There is no default-score fallback: a failed call or unparseable response
// fails the analysis.
type QualityAnalyzer struct {
	ai     Generator
	store  QualityStore
	config llm.ModelConfig
}

func NewQualityAnalyzer(ai Generator, store QualityStore, config llm.ModelConfig) *QualityAnalyzer {
	return &QualityAnalyzer{ai: ai, store: store, config: config}
}

func (a *QualityAnalyzer) Analyze(ctx context.Context, article *model.Article) (*model.QualityCheck, error) {
	prompt := fmt.Sprintf(qualityPromptTemplate, article.Title, article.Content)

	result, err := a.ai.Generate(ctx, prompt, a.config)
	if err != nil {
		return nil, fmt.Errorf("quality analysis failed: %w", err)
	}

	content := llm.CleanJSONResponse(result.Content)

	var parsed struct {
		Accuracy    int      `json:"accuracy"`
		Readability int      `json:"readability"`
		Structure   int      `json:"structure"`
		Relevance   int      `json:"relevance"`
		Issues      []string `json:"issues"`
		Suggestions []string `json:"suggestions"`
		Strengths   []string `json:"strengths"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse quality response: %w, content: %s", err, content)
	}

	check := &model.QualityCheck{
		ArticleID:   article.ID,
		Accuracy:    clampScore(parsed.Accuracy),
		Readability: clampScore(parsed.Readability),
		Structure:   clampScore(parsed.Structure),
		Relevance:   clampScore(parsed.Relevance),
		Issues:      parsed.Issues,
		Suggestions: parsed.Suggestions,
		Strengths:   parsed.Strengths,
		ModelUsed:   result.Model,
	}
	check.Overall = (check.Accuracy + check.Readability + check.Structure + check.Relevance) / 4
	check.Passed = check.Overall >= QualityPassThreshold

	if err := a.store.SaveQualityCheck(check); err != nil {
		return nil, fmt.Errorf("error saving quality check: %w", err)
	}

	return check, nil
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
