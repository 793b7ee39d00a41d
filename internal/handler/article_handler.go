package handler

import (
	"log/slog"
	"net/http"
	"time"

	"sadanews/internal/model"

	"github.com/gin-gonic/gin"
)

type ArticleStore interface {
	GetFeed(locale string, limit, offset int) ([]model.Article, error)
	GetFeedTotal(locale string) (int, error)
	GetCategories() ([]model.Category, error)
}

type ArticleHandler struct {
	repository ArticleStore
}

func NewArticleHandler(repository ArticleStore) *ArticleHandler {
	return &ArticleHandler{repository: repository}
}

func toArticleResponse(a model.Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Excerpt:   a.Excerpt,
		Locale:    a.Locale,
		ImageURL:  a.ImageURL,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ArticleHandler) GetFeed(c *gin.Context) {
	limit := getLimit(c)
	offset := getOffset(c)
	locale := c.Query("locale")

	articles, err := h.repository.GetFeed(locale, limit, offset)
	if err != nil {
		slog.Error("error fetching article feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetFeedTotal(locale)
	if err != nil {
		slog.Error("error fetching feed total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := FeedResponse{Articles: []ArticleResponse{}, Total: total, Limit: limit, Offset: offset}
	for _, a := range articles {
		res.Articles = append(res.Articles, toArticleResponse(a))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ArticleHandler) GetCategories(c *gin.Context) {
	categories, err := h.repository.GetCategories()
	if err != nil {
		slog.Error("error fetching categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		res = append(res, CategoryResponse{ID: cat.ID, Name: cat.Name})
	}

	c.JSON(http.StatusOK, gin.H{"categories": res})
}

func (h *ArticleHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetFeedTotal("")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}
