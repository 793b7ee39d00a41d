package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sadanews/db"
	"sadanews/internal/budget"
	"sadanews/internal/executor"
	"sadanews/internal/repository"
	"sadanews/internal/scheduler"
	"sadanews/pkg/llm"

	"github.com/joho/godotenv"
)

// redisNotifier pushes published-article events onto the notification queue
// consumed by the external delivery job.
type redisNotifier struct{}

func (redisNotifier) PublishArticle(articleID int64, locale string) error {
	payload, err := json.Marshal(map[string]any{
		"article_id": articleID,
		"locale":     locale,
	})
	if err != nil {
		return err
	}
	return db.PushToQueue(db.NotificationQueueKey, string(payload))
}

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	taskRepo := repository.NewTaskRepository(db.DB)
	articleRepo := repository.NewArticleRepository(db.DB)
	budgetRepo := repository.NewBudgetRepository(db.DB)

	tracker := budget.NewTracker(budgetRepo, budget.LimitsFromEnv())

	var clients []llm.Client
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		clients = append(clients, llm.NewOpenAIClient(key))
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		clients = append(clients, llm.NewAnthropicClient(key))
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		geminiClient, err := llm.NewGeminiClient(key)
		if err != nil {
			slog.Warn("skipping gemini client", "error", err)
		} else {
			clients = append(clients, geminiClient)
		}
	}
	if len(clients) == 0 {
		log.Fatal("no AI provider API keys configured")
	}

	manager := llm.NewManager(clients, tracker)

	imageClient := llm.NewImageClient(os.Getenv("OPENAI_API_KEY"))

	defaultConfig := llm.ModelConfig{
		Provider:  llm.Provider(getEnv("AI_PROVIDER", string(llm.ProviderOpenAI))),
		Model:     getEnv("AI_MODEL", "gpt-4o-mini"),
		MaxTokens: 4096,
	}

	ex := executor.New(taskRepo, articleRepo, imageClient, manager, redisNotifier{}, defaultConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("worker started", "provider", defaultConfig.Provider, "model", defaultConfig.Model)

	sched := scheduler.New(ex)
	sched.Run(ctx)

	slog.Info("worker stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
