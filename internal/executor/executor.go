package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"sadanews/internal/model"
	"sadanews/pkg/llm"
)

const (
	defaultArticleTimeout = 5 * time.Minute
	defaultImageTimeout   = 3 * time.Minute
)

type TaskStore interface {
	GetDuePending(now time.Time) ([]model.ScheduledTask, error)
	MarkProcessing(id int64) (bool, error)
	SaveExecution(id int64, status string, exec *model.TaskExecution) error
}

type ArticleStore interface {
	Save(article *model.Article) error
	AttachImage(id int64, imageURL string) error
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, imageModel string) (*llm.ImageResult, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, cfg llm.ModelConfig) (*llm.GenerationResult, error)
}

// Notifier enqueues a published-article event for the external notification
// delivery job.
type Notifier interface {
	PublishArticle(articleID int64, locale string) error
}

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Executor is the error boundary for the content-generation pipeline: every
// outcome of a claimed task becomes a structured completed/failed record,
// never a raw error to the caller.
type Executor struct {
	tasks    TaskStore
	articles ArticleStore
	images   ImageGenerator
	ai       Generator
	notify   Notifier
	config   llm.ModelConfig

	articleTimeout time.Duration
	imageTimeout   time.Duration
}

// New builds an Executor. notify may be nil.
func New(tasks TaskStore, articles ArticleStore, images ImageGenerator, ai Generator, notify Notifier, config llm.ModelConfig) *Executor {
	return &Executor{
		tasks:          tasks,
		articles:       articles,
		images:         images,
		ai:             ai,
		notify:         notify,
		config:         config,
		articleTimeout: defaultArticleTimeout,
		imageTimeout:   defaultImageTimeout,
	}
}

func (e *Executor) DueTasks(now time.Time) ([]model.ScheduledTask, error) {
	return e.tasks.GetDuePending(now)
}

// Execute claims the task and runs the generation pipeline. A lost claim is a
// silent skip so racing worker ticks on the same due task don't produce
// spurious failure records.
func (e *Executor) Execute(ctx context.Context, task model.ScheduledTask) (outcome Outcome) {
	claimed, err := e.tasks.MarkProcessing(task.ID)
	if err != nil {
		slog.Error("error claiming task", "error", err, "task_id", task.ID)
		return OutcomeSkipped
	}
	if !claimed {
		slog.Debug("task already claimed, skipping", "task_id", task.ID)
		return OutcomeSkipped
	}

	start := time.Now()
	exec := &model.TaskExecution{}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during task execution", "task_id", task.ID, "panic", r, "stack", string(debug.Stack()))
			e.markFailed(task.ID, exec, start, fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
			outcome = OutcomeFailed
		}
	}()

	return e.run(ctx, task, exec, start)
}

func (e *Executor) run(ctx context.Context, task model.ScheduledTask, exec *model.TaskExecution, start time.Time) Outcome {
	slog.Info("executing task", "task_id", task.ID, "title", task.Title, "locale", task.Locale)

	// Step 1: article text, hard timeout, failure fails the task.
	draft, err := e.generateArticle(ctx, task, exec)
	if err != nil {
		e.markFailed(task.ID, exec, start, err)
		return OutcomeFailed
	}

	// Step 2: featured image. Non-critical: a timeout or error is logged and
	// the task proceeds without an image.
	var imageURL string
	if task.GenerateImage {
		imageURL = e.generateImage(ctx, task, exec)
	}

	// Step 3: persist the article.
	article := &model.Article{
		Title:       draft.Title,
		Slug:        Slugify(draft.Title),
		Content:     draft.Content,
		Excerpt:     draft.Excerpt,
		Locale:      task.Locale,
		CategoryID:  task.CategoryID,
		AuthorName:  model.SystemAuthor,
		AIGenerated: true,
		Published:   task.AutoPublish,
	}
	stepStart := time.Now()
	if err := e.articles.Save(article); err != nil {
		e.logStep(exec, "persist_article", err.Error(), stepStart)
		e.markFailed(task.ID, exec, start, fmt.Errorf("error persisting article: %w", err))
		return OutcomeFailed
	}
	exec.ArticleID = &article.ID
	e.logStep(exec, "persist_article", "", stepStart)

	// Step 4: attach the image, if one was produced.
	if imageURL != "" {
		stepStart = time.Now()
		if err := e.articles.AttachImage(article.ID, imageURL); err != nil {
			e.logStep(exec, "attach_image", err.Error(), stepStart)
			e.markFailed(task.ID, exec, start, fmt.Errorf("error attaching image: %w", err))
			return OutcomeFailed
		}
		exec.ImageURL = imageURL
		e.logStep(exec, "attach_image", "", stepStart)
	}

	// Step 5: terminal write.
	exec.ExecutionMs = time.Since(start).Milliseconds()
	if err := e.tasks.SaveExecution(task.ID, model.StatusCompleted, exec); err != nil {
		// Known gap: the row stays in processing; there is no sweeper.
		slog.Error("error marking task completed, task left in processing", "error", err, "task_id", task.ID)
		return OutcomeFailed
	}

	if task.AutoPublish && e.notify != nil {
		if err := e.notify.PublishArticle(article.ID, task.Locale); err != nil {
			slog.Error("error enqueueing publish notification", "error", err, "article_id", article.ID)
		}
	}

	slog.Info("task completed", "task_id", task.ID, "article_id", article.ID,
		"tokens", exec.TokensUsed, "cost", exec.Cost, "execution_ms", exec.ExecutionMs)
	return OutcomeCompleted
}

type articleDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
}

func (e *Executor) generateArticle(ctx context.Context, task model.ScheduledTask, exec *model.TaskExecution) (*articleDraft, error) {
	genCtx, cancel := context.WithTimeout(ctx, e.articleTimeout)
	defer cancel()

	stepStart := time.Now()
	result, err := e.ai.Generate(genCtx, buildArticlePrompt(task), e.config)
	if err != nil {
		e.logStep(exec, "generate_article", err.Error(), stepStart)
		return nil, fmt.Errorf("error generating article: %w", err)
	}
	e.logStep(exec, "generate_article", "", stepStart)

	if result.Usage != nil {
		exec.TokensUsed += result.Usage.InputTokens + result.Usage.OutputTokens
		exec.Cost += llm.CostFor(e.config, result.Usage)
	}

	var draft articleDraft
	content := llm.CleanJSONResponse(result.Content)
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse article response: %w, content: %s", err, content)
	}
	if draft.Title == "" {
		draft.Title = task.Title
	}
	if draft.Content == "" {
		return nil, fmt.Errorf("empty article content in response")
	}

	return &draft, nil
}

func (e *Executor) generateImage(ctx context.Context, task model.ScheduledTask, exec *model.TaskExecution) string {
	imgCtx, cancel := context.WithTimeout(ctx, e.imageTimeout)
	defer cancel()

	stepStart := time.Now()
	img, err := e.images.GenerateImage(imgCtx, buildImagePrompt(task), task.ImageModel)
	if err != nil {
		slog.Warn("image generation failed, continuing without image", "error", err, "task_id", task.ID)
		e.logStep(exec, "generate_image", err.Error(), stepStart)
		return ""
	}
	e.logStep(exec, "generate_image", "", stepStart)
	return img.URL
}

func (e *Executor) markFailed(taskID int64, exec *model.TaskExecution, start time.Time, cause error) {
	exec.Error = cause.Error()
	exec.ExecutionMs = time.Since(start).Milliseconds()

	slog.Error("task failed", "error", cause, "task_id", taskID,
		"tokens", exec.TokensUsed, "cost", exec.Cost, "execution_ms", exec.ExecutionMs)

	if err := e.tasks.SaveExecution(taskID, model.StatusFailed, exec); err != nil {
		// Known gap: the row stays in processing; there is no sweeper.
		slog.Error("error recording task failure, task left in processing", "error", err, "task_id", taskID)
	}
}

func (e *Executor) logStep(exec *model.TaskExecution, step, detail string, start time.Time) {
	exec.Log = append(exec.Log, model.ExecutionLogEntry{
		Step:       step,
		Detail:     detail,
		DurationMs: time.Since(start).Milliseconds(),
		Timestamp:  time.Now(),
	})
}
