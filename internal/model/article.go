package model

import "time"

// SystemAuthor is the fixed attribution for AI-generated articles.
const SystemAuthor = "AI Newsroom"

type Article struct {
	ID          int64
	Title       string
	Slug        string
	Content     string
	Excerpt     string
	Locale      string
	CategoryID  int64
	AuthorName  string
	AIGenerated bool
	ImageURL    string
	Published   bool
	CreatedAt   time.Time
}

type Category struct {
	ID   int64
	Name string
}
