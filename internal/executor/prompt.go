package executor

import (
	"fmt"
	"strings"
	"unicode"

	"sadanews/internal/model"
)

var localeNames = map[string]string{
	"ar": "Arabic",
	"en": "English",
	"ur": "Urdu",
}

var contentTypeInstructions = map[string]string{
	model.ContentTypeNews:      "a factual news article with a clear lede and inverted-pyramid structure",
	model.ContentTypeAnalysis:  "an analysis piece that explains background, context, and implications",
	model.ContentTypeReport:    "an in-depth report with sections and supporting detail",
	model.ContentTypeInterview: "an interview-style article with questions and answers",
	model.ContentTypeOpinion:   "an opinion column with a clear argument and a measured tone",
}

func buildArticlePrompt(task model.ScheduledTask) string {
	language := localeNames[task.Locale]
	if language == "" {
		language = "English"
	}

	style := contentTypeInstructions[task.ContentType]
	if style == "" {
		style = contentTypeInstructions[model.ContentTypeNews]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Write %s in %s.\n", style, language)
	fmt.Fprintf(&sb, "Topic: %s\n", task.Title)
	if len(task.Keywords) > 0 {
		fmt.Fprintf(&sb, "Keywords to cover: %s\n", strings.Join(task.Keywords, ", "))
	}
	if task.PromptInstructions != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n", task.PromptInstructions)
	}
	sb.WriteString(`
Output as JSON only, no other text:
{
  "title": "article headline",
  "content": "full article body",
  "excerpt": "one-to-two sentence summary"
}`)

	return sb.String()
}

func buildImagePrompt(task model.ScheduledTask) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Editorial news photograph illustrating: %s.", task.Title)
	if len(task.Keywords) > 0 {
		fmt.Fprintf(&sb, " Themes: %s.", strings.Join(task.Keywords, ", "))
	}
	sb.WriteString(" No text or watermarks in the image.")
	return sb.String()
}

// Slugify lowercases and hyphenates a title, keeping Unicode letters and
// digits so Arabic and Urdu headlines produce usable slugs.
func Slugify(title string) string {
	var sb strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			sb.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
