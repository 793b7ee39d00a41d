package handler

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type TaskResponse struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Locale             string   `json:"locale"`
	ContentType        string   `json:"content_type"`
	Keywords           []string `json:"keywords"`
	PromptInstructions string   `json:"prompt_instructions"`
	CategoryID         int64    `json:"category_id"`
	AutoPublish        bool     `json:"auto_publish"`
	GenerateImage      bool     `json:"generate_image"`
	ImageModel         string   `json:"image_model"`
	Status             string   `json:"status"`
	ScheduledAt        string   `json:"scheduled_at"`
	CreatedAt          string   `json:"created_at"`
}

type TaskListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type CreateTaskRequest struct {
	Title              string   `json:"title"`
	Locale             string   `json:"locale"`
	ContentType        string   `json:"content_type"`
	Keywords           []string `json:"keywords"`
	PromptInstructions string   `json:"prompt_instructions"`
	CategoryID         int64    `json:"category_id"`
	AutoPublish        bool     `json:"auto_publish"`
	GenerateImage      bool     `json:"generate_image"`
	ImageModel         string   `json:"image_model"`
	ScheduledAt        string   `json:"scheduled_at"`
}

type ProviderUsageResponse struct {
	APICalls int     `json:"api_calls"`
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
}

type BudgetPeriodResponse struct {
	PeriodType    string                `json:"period_type"`
	PeriodStart   string                `json:"period_start"`
	PeriodEnd     string                `json:"period_end"`
	TotalAPICalls int                   `json:"total_api_calls"`
	TotalTokens   int                   `json:"total_tokens"`
	TotalCost     float64               `json:"total_cost"`
	OpenAI        ProviderUsageResponse `json:"openai"`
	Anthropic     ProviderUsageResponse `json:"anthropic"`
	Gemini        ProviderUsageResponse `json:"gemini"`
}

type BudgetStatusResponse struct {
	PeriodType   string  `json:"period_type"`
	Limit        float64 `json:"limit"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	Utilization  float64 `json:"utilization"`
	IsOverBudget bool    `json:"is_over_budget"`
}

type TrackUsageRequest struct {
	Provider string  `json:"provider"`
	APICalls int     `json:"api_calls"`
	Tokens   int     `json:"tokens"`
	Cost     float64 `json:"cost"`
	Period   string  `json:"period"`
}

type ArticleResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	Locale    string `json:"locale"`
	ImageURL  string `json:"image_url"`
	CreatedAt string `json:"created_at"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type FeedResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getLimit(c *gin.Context) int {
	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func getOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		return 0
	}
	return offset
}
