package analyzer

import (
	"context"
	"fmt"
	"testing"

	"sadanews/internal/model"
	"sadanews/pkg/llm"

	"github.com/go-playground/assert/v2"
)

type fakeGenerator struct {
	content string
	err     error
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, cfg llm.ModelConfig) (*llm.GenerationResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &llm.GenerationResult{Provider: cfg.Provider, Model: cfg.Model, Content: g.content}, nil
}

type fakeAnalysisStore struct {
	checks   []*model.QualityCheck
	insights []*model.StrategyInsight
	err      error
}

func (s *fakeAnalysisStore) SaveQualityCheck(check *model.QualityCheck) error {
	if s.err != nil {
		return s.err
	}
	s.checks = append(s.checks, check)
	return nil
}

func (s *fakeAnalysisStore) SaveStrategyInsight(insight *model.StrategyInsight) error {
	if s.err != nil {
		return s.err
	}
	s.insights = append(s.insights, insight)
	return nil
}

func testConfig() llm.ModelConfig {
	return llm.ModelConfig{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini"}
}

func testArticle() *model.Article {
	return &model.Article{ID: 7, Title: "Test Article", Content: "Body text."}
}

func TestQualityAnalyze_PassingScore(t *testing.T) {
	gen := &fakeGenerator{content: `{"accuracy":90,"readability":80,"structure":85,"relevance":75,"issues":[],"suggestions":["tighten the lede"],"strengths":["clear sourcing"]}`}
	store := &fakeAnalysisStore{}
	a := NewQualityAnalyzer(gen, store, testConfig())

	check, err := a.Analyze(context.Background(), testArticle())
	assert.Equal(t, err, nil)
	assert.Equal(t, check.Overall, 82)
	assert.Equal(t, check.Passed, true)
	assert.Equal(t, check.ArticleID, int64(7))
	assert.Equal(t, len(store.checks), 1)
}

func TestQualityAnalyze_FailingScore(t *testing.T) {
	gen := &fakeGenerator{content: `{"accuracy":50,"readability":60,"structure":55,"relevance":60,"issues":["thin sourcing"],"suggestions":[],"strengths":[]}`}
	store := &fakeAnalysisStore{}
	a := NewQualityAnalyzer(gen, store, testConfig())

	check, err := a.Analyze(context.Background(), testArticle())
	assert.Equal(t, err, nil)
	assert.Equal(t, check.Overall, 56)
	assert.Equal(t, check.Passed, false)
}

func TestQualityAnalyze_ClampsScores(t *testing.T) {
	gen := &fakeGenerator{content: `{"accuracy":150,"readability":-20,"structure":100,"relevance":50}`}
	store := &fakeAnalysisStore{}
	a := NewQualityAnalyzer(gen, store, testConfig())

	check, err := a.Analyze(context.Background(), testArticle())
	assert.Equal(t, err, nil)
	assert.Equal(t, check.Accuracy, 100)
	assert.Equal(t, check.Readability, 0)
}

func TestQualityAnalyze_UnparseableResponse(t *testing.T) {
	gen := &fakeGenerator{content: "I could not score this article, sorry."}
	store := &fakeAnalysisStore{}
	a := NewQualityAnalyzer(gen, store, testConfig())

	_, err := a.Analyze(context.Background(), testArticle())
	if err == nil {
		t.Fatal("expected error for unparseable response")
	}
	assert.Equal(t, len(store.checks), 0)
}

func TestQualityAnalyze_GenerationError(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("openai/gpt-4o-mini: simulated failure")}
	a := NewQualityAnalyzer(gen, &fakeAnalysisStore{}, testConfig())

	_, err := a.Analyze(context.Background(), testArticle())
	if err == nil {
		t.Fatal("expected error when generation fails")
	}
}

func TestStrategyAnalyze_ParsesInsight(t *testing.T) {
	gen := &fakeGenerator{content: "```json\n{\"topic_suggestions\":[\"water policy\"],\"content_gaps\":[\"local sports\"],\"strengths\":[\"politics\"],\"confidence\":85}\n```"}
	store := &fakeAnalysisStore{}
	a := NewStrategyAnalyzer(gen, store, testConfig())

	insight, err := a.Analyze(context.Background(), "ar", []string{"headline one", "headline two"})
	assert.Equal(t, err, nil)
	assert.Equal(t, insight.Locale, "ar")
	assert.Equal(t, insight.TopicSuggestions, []string{"water policy"})
	assert.Equal(t, insight.Confidence, 85)
	assert.Equal(t, len(store.insights), 1)
}

func TestStrategyAnalyze_UnparseableResponse(t *testing.T) {
	gen := &fakeGenerator{content: "no json here"}
	a := NewStrategyAnalyzer(gen, &fakeAnalysisStore{}, testConfig())

	_, err := a.Analyze(context.Background(), "en", []string{"headline"})
	if err == nil {
		t.Fatal("expected error for unparseable response")
	}
}
