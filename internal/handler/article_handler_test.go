package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sadanews/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeArticleStore struct {
	articles   []model.Article
	total      int
	categories []model.Category
	err        error
}

func (f *fakeArticleStore) GetFeed(locale string, limit, offset int) ([]model.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Article
	for _, a := range f.articles {
		if locale == "" || a.Locale == locale {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticleStore) GetFeedTotal(locale string) (int, error) {
	return f.total, f.err
}

func (f *fakeArticleStore) GetCategories() ([]model.Category, error) {
	return f.categories, f.err
}

func newArticleRouter(store ArticleStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewArticleHandler(store)
	r.GET("/feed", h.GetFeed)
	r.GET("/categories", h.GetCategories)
	r.GET("/health", h.GetHealth)
	return r
}

func TestGetFeed_FiltersByLocale(t *testing.T) {
	store := &fakeArticleStore{
		articles: []model.Article{
			{ID: 1, Title: "Arabic article", Locale: "ar", CreatedAt: time.Now()},
			{ID: 2, Title: "English article", Locale: "en", CreatedAt: time.Now()},
		},
		total: 2,
	}
	r := newArticleRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/feed?locale=ar", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)

	var res FeedResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, len(res.Articles), 1)
	assert.Equal(t, res.Articles[0].Title, "Arabic article")
}

func TestGetFeed_DatabaseError(t *testing.T) {
	r := newArticleRouter(&fakeArticleStore{err: fmt.Errorf("db down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/feed", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusInternalServerError)
}

func TestGetCategories_ReturnsCategories(t *testing.T) {
	store := &fakeArticleStore{
		categories: []model.Category{{ID: 1, Name: "Economy"}, {ID: 2, Name: "Politics"}},
	}
	r := newArticleRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/categories", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)

	var res struct {
		Categories []CategoryResponse `json:"categories"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, len(res.Categories), 2)
	assert.Equal(t, res.Categories[0].Name, "Economy")
}

func TestGetHealth_Healthy(t *testing.T) {
	r := newArticleRouter(&fakeArticleStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusOK)
}

func TestGetHealth_Unhealthy(t *testing.T) {
	r := newArticleRouter(&fakeArticleStore{err: fmt.Errorf("connection refused")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, w.Code, http.StatusServiceUnavailable)
}
