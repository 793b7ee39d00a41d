package main

import (
	"log"
	"log/slog"
	"os"

	"sadanews/db"
	"sadanews/internal/budget"
	"sadanews/internal/handler"
	"sadanews/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	taskRepo := repository.NewTaskRepository(db.DB)
	taskHandler := handler.NewTaskHandler(taskRepo)

	articleRepo := repository.NewArticleRepository(db.DB)
	articleHandler := handler.NewArticleHandler(articleRepo)

	budgetRepo := repository.NewBudgetRepository(db.DB)
	tracker := budget.NewTracker(budgetRepo, budget.LimitsFromEnv())
	budgetHandler := handler.NewBudgetHandler(tracker)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/tasks", taskHandler.CreateTask)
	r.GET("/tasks", taskHandler.ListTasks)
	r.GET("/tasks/:id", taskHandler.GetTask)
	r.POST("/tasks/:id/cancel", taskHandler.CancelTask)
	r.GET("/budget", budgetHandler.GetCurrentBudget)
	r.GET("/budget/status", budgetHandler.GetBudgetStatus)
	r.POST("/budget/usage", budgetHandler.TrackUsage)
	r.GET("/feed", articleHandler.GetFeed)
	r.GET("/categories", articleHandler.GetCategories)
	r.GET("/health", articleHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
