package model

import "time"

// QualityCheck is a single-shot content quality score for an article.
// Records are created once per analysis run; a newer record supersedes an
// older one but nothing is mutated in place.
type QualityCheck struct {
	ID          int64
	ArticleID   int64
	Accuracy    int
	Readability int
	Structure   int
	Relevance   int
	Overall     int
	Passed      bool
	Issues      []string
	Suggestions []string
	Strengths   []string
	ModelUsed   string
	CreatedAt   time.Time
}

// StrategyInsight is a single-shot editorial strategy analysis for a locale.
type StrategyInsight struct {
	ID               int64
	Locale           string
	TopicSuggestions []string
	ContentGaps      []string
	Strengths        []string
	Confidence       int
	ModelUsed        string
	CreatedAt        time.Time
}
