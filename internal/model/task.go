package model

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

const (
	ContentTypeNews      = "news"
	ContentTypeAnalysis  = "analysis"
	ContentTypeReport    = "report"
	ContentTypeInterview = "interview"
	ContentTypeOpinion   = "opinion"
)

var Locales = []string{"ar", "en", "ur"}

var ContentTypes = []string{
	ContentTypeNews,
	ContentTypeAnalysis,
	ContentTypeReport,
	ContentTypeInterview,
	ContentTypeOpinion,
}

func ValidLocale(locale string) bool {
	for _, l := range Locales {
		if l == locale {
			return true
		}
	}
	return false
}

func ValidContentType(contentType string) bool {
	for _, ct := range ContentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}

type ScheduledTask struct {
	ID                 int64
	Title              string
	Locale             string
	ContentType        string
	Keywords           []string
	PromptInstructions string
	CategoryID         int64
	AutoPublish        bool
	GenerateImage      bool
	ImageModel         string
	Status             string
	ScheduledAt        time.Time
	CreatedAt          time.Time
}

// ExecutionLogEntry is one step of a task's structured execution log.
type ExecutionLogEntry struct {
	Step       string    `json:"step"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// TaskExecution holds the telemetry attached to a task once it reaches a
// terminal state. Cost and token totals include every step that ran, even
// when the task failed partway through.
type TaskExecution struct {
	ExecutionMs int64
	TokensUsed  int
	Cost        float64
	ArticleID   *int64
	ImageURL    string
	Error       string
	Log         []ExecutionLogEntry
}
