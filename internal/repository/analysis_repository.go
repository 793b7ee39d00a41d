package repository

import (
	"database/sql"

	"sadanews/internal/model"

	"github.com/lib/pq"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) SaveQualityCheck(check *model.QualityCheck) error {
	return r.db.QueryRow(`
		INSERT INTO quality_check(article_id, accuracy, readability, structure, relevance, overall, passed, issues, suggestions, strengths, model_used)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, check.ArticleID, check.Accuracy, check.Readability, check.Structure, check.Relevance,
		check.Overall, check.Passed, pq.Array(check.Issues), pq.Array(check.Suggestions),
		pq.Array(check.Strengths), check.ModelUsed).Scan(&check.ID, &check.CreatedAt)
}

func (r *AnalysisRepository) GetLatestQualityCheck(articleID int64) (*model.QualityCheck, error) {
	var c model.QualityCheck
	err := r.db.QueryRow(`
		SELECT id, article_id, accuracy, readability, structure, relevance, overall, passed, issues, suggestions, strengths, model_used, created_at
		FROM quality_check
		WHERE article_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, articleID).Scan(&c.ID, &c.ArticleID, &c.Accuracy, &c.Readability, &c.Structure, &c.Relevance,
		&c.Overall, &c.Passed, pq.Array(&c.Issues), pq.Array(&c.Suggestions),
		pq.Array(&c.Strengths), &c.ModelUsed, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *AnalysisRepository) SaveStrategyInsight(insight *model.StrategyInsight) error {
	return r.db.QueryRow(`
		INSERT INTO strategy_insight(locale, topic_suggestions, content_gaps, strengths, confidence, model_used)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, insight.Locale, pq.Array(insight.TopicSuggestions), pq.Array(insight.ContentGaps),
		pq.Array(insight.Strengths), insight.Confidence, insight.ModelUsed).Scan(&insight.ID, &insight.CreatedAt)
}

func (r *AnalysisRepository) GetLatestStrategyInsight(locale string) (*model.StrategyInsight, error) {
	var s model.StrategyInsight
	err := r.db.QueryRow(`
		SELECT id, locale, topic_suggestions, content_gaps, strengths, confidence, model_used, created_at
		FROM strategy_insight
		WHERE locale = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, locale).Scan(&s.ID, &s.Locale, pq.Array(&s.TopicSuggestions), pq.Array(&s.ContentGaps),
		pq.Array(&s.Strengths), &s.Confidence, &s.ModelUsed, &s.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &s, nil
}
