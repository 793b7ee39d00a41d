package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"sadanews/db"
	"sadanews/internal/analyzer"
	"sadanews/internal/budget"
	"sadanews/internal/model"
	"sadanews/internal/repository"
	"sadanews/pkg/llm"

	"github.com/joho/godotenv"
)

// One-shot editorial analysis job, run from cron. Quality-checks the latest
// generated articles and produces one strategy insight per locale.
func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	articleRepo := repository.NewArticleRepository(db.DB)
	analysisRepo := repository.NewAnalysisRepository(db.DB)
	budgetRepo := repository.NewBudgetRepository(db.DB)

	tracker := budget.NewTracker(budgetRepo, budget.LimitsFromEnv())

	openAIClient := llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
	manager := llm.NewManager([]llm.Client{openAIClient}, tracker)

	config := llm.ModelConfig{Provider: llm.ProviderOpenAI, Model: "gpt-4o-mini", MaxTokens: 2048}

	quality := analyzer.NewQualityAnalyzer(manager, analysisRepo, config)
	strategy := analyzer.NewStrategyAnalyzer(manager, analysisRepo, config)

	ctx := context.Background()

	for _, locale := range model.Locales {
		articles, err := articleRepo.GetFeed(locale, 20, 0)
		if err != nil {
			slog.Error("error fetching articles", "error", err, "locale", locale)
			continue
		}

		if len(articles) == 0 {
			slog.Info("no articles to analyze", "locale", locale)
			continue
		}

		titles := make([]string, len(articles))
		for i, a := range articles {
			titles[i] = a.Title
		}

		insight, err := strategy.Analyze(ctx, locale, titles)
		if err != nil {
			slog.Error("error running strategy analysis", "error", err, "locale", locale)
		} else {
			slog.Info("strategy insight saved", "locale", locale, "confidence", insight.Confidence, "suggestions", len(insight.TopicSuggestions))
		}

		for _, a := range articles {
			article := a
			check, err := quality.Analyze(ctx, &article)
			if err != nil {
				slog.Error("error running quality check", "error", err, "article_id", article.ID)
				continue
			}
			slog.Info("quality check saved", "article_id", article.ID, "overall", check.Overall, "passed", check.Passed)
		}
	}
}
