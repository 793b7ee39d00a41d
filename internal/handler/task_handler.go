package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sadanews/internal/model"

	"github.com/gin-gonic/gin"
)

type TaskStore interface {
	Save(task *model.ScheduledTask) error
	GetByID(id int64) (*model.ScheduledTask, error)
	List(limit, offset int) ([]model.ScheduledTask, error)
	Cancel(id int64) (bool, error)
}

type TaskHandler struct {
	repository TaskStore
}

func NewTaskHandler(repository TaskStore) *TaskHandler {
	return &TaskHandler{repository: repository}
}

func toTaskResponse(t model.ScheduledTask) TaskResponse {
	keywords := t.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return TaskResponse{
		ID:                 t.ID,
		Title:              t.Title,
		Locale:             t.Locale,
		ContentType:        t.ContentType,
		Keywords:           keywords,
		PromptInstructions: t.PromptInstructions,
		CategoryID:         t.CategoryID,
		AutoPublish:        t.AutoPublish,
		GenerateImage:      t.GenerateImage,
		ImageModel:         t.ImageModel,
		Status:             t.Status,
		ScheduledAt:        t.ScheduledAt.Format(time.RFC3339),
		CreatedAt:          t.CreatedAt.Format(time.RFC3339),
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	if !model.ValidLocale(req.Locale) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid locale"})
		return
	}
	if !model.ValidContentType(req.ContentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content type"})
		return
	}

	scheduledAt := time.Now()
	if req.ScheduledAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheduled_at, expected RFC3339"})
			return
		}
		scheduledAt = parsed
	}

	task := &model.ScheduledTask{
		Title:              req.Title,
		Locale:             req.Locale,
		ContentType:        req.ContentType,
		Keywords:           req.Keywords,
		PromptInstructions: req.PromptInstructions,
		CategoryID:         req.CategoryID,
		AutoPublish:        req.AutoPublish,
		GenerateImage:      req.GenerateImage,
		ImageModel:         req.ImageModel,
		Status:             model.StatusPending,
		ScheduledAt:        scheduledAt,
	}

	if err := h.repository.Save(task); err != nil {
		slog.Error("error saving task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(*task))
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	limit := getLimit(c)
	offset := getOffset(c)

	tasks, err := h.repository.List(limit, offset)
	if err != nil {
		slog.Error("error listing tasks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := TaskListResponse{Tasks: []TaskResponse{}, Limit: limit, Offset: offset}
	for _, t := range tasks {
		res.Tasks = append(res.Tasks, toTaskResponse(t))
	}

	c.JSON(http.StatusOK, res)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	task, err := h.repository.GetByID(id)
	if err != nil {
		slog.Error("error fetching task", "error", err, "task_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(*task))
}

// CancelTask moves a pending task to cancelled. Claimed or finished tasks
// cannot be cancelled; an in-flight task runs to completion or failure.
func (h *TaskHandler) CancelTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task id"})
		return
	}

	cancelled, err := h.repository.Cancel(id)
	if err != nil {
		slog.Error("error cancelling task", "error", err, "task_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !cancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "Task is not pending"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": model.StatusCancelled})
}
