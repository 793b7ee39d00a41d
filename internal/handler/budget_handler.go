package handler

import (
	"log/slog"
	"net/http"
	"time"

	"sadanews/internal/budget"
	"sadanews/internal/model"
	"sadanews/pkg/llm"

	"github.com/gin-gonic/gin"
)

type BudgetService interface {
	GetCurrentPeriodBudget(periodType string) (*model.BudgetPeriod, error)
	CheckBudgetStatus() ([]model.BudgetStatus, error)
	TrackUsage(event budget.UsageEvent) error
}

type BudgetHandler struct {
	service BudgetService
}

func NewBudgetHandler(service BudgetService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

func toProviderUsageResponse(u model.ProviderUsage) ProviderUsageResponse {
	return ProviderUsageResponse{APICalls: u.APICalls, Tokens: u.Tokens, Cost: u.Cost}
}

func toBudgetPeriodResponse(p model.BudgetPeriod) BudgetPeriodResponse {
	return BudgetPeriodResponse{
		PeriodType:    p.PeriodType,
		PeriodStart:   p.PeriodStart.Format(time.RFC3339),
		PeriodEnd:     p.PeriodEnd.Format(time.RFC3339),
		TotalAPICalls: p.TotalAPICalls,
		TotalTokens:   p.TotalTokens,
		TotalCost:     p.TotalCost,
		OpenAI:        toProviderUsageResponse(p.OpenAI),
		Anthropic:     toProviderUsageResponse(p.Anthropic),
		Gemini:        toProviderUsageResponse(p.Gemini),
	}
}

// GetCurrentBudget returns the aggregate for the period containing now.
// Returns usage null when nothing has been tracked yet this period.
func (h *BudgetHandler) GetCurrentBudget(c *gin.Context) {
	periodType := c.DefaultQuery("period", model.PeriodDaily)
	if !model.ValidPeriodType(periodType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period type"})
		return
	}

	p, err := h.service.GetCurrentPeriodBudget(periodType)
	if err != nil {
		slog.Error("error fetching budget period", "error", err, "period", periodType)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if p == nil {
		c.JSON(http.StatusOK, gin.H{"period_type": periodType, "usage": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"period_type": periodType, "usage": toBudgetPeriodResponse(*p)})
}

func (h *BudgetHandler) GetBudgetStatus(c *gin.Context) {
	statuses, err := h.service.CheckBudgetStatus()
	if err != nil {
		slog.Error("error checking budget status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]BudgetStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		res = append(res, BudgetStatusResponse{
			PeriodType:   s.PeriodType,
			Limit:        s.Limit,
			Spent:        s.Spent,
			Remaining:    s.Remaining,
			Utilization:  s.Utilization,
			IsOverBudget: s.IsOverBudget,
		})
	}

	c.JSON(http.StatusOK, gin.H{"periods": res})
}

func (h *BudgetHandler) TrackUsage(c *gin.Context) {
	var req TrackUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !model.ValidPeriodType(req.Period) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period type"})
		return
	}

	event := budget.UsageEvent{
		Provider: llm.Provider(req.Provider),
		APICalls: req.APICalls,
		Tokens:   req.Tokens,
		Cost:     req.Cost,
		Period:   req.Period,
	}
	if err := h.service.TrackUsage(event); err != nil {
		slog.Error("error tracking usage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "tracked"})
}
