package repository

import (
	"database/sql"

	"sadanews/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Save(article *model.Article) error {
	return r.db.QueryRow(`
		INSERT INTO article(title, slug, content, excerpt, locale, category_id, author_name, ai_generated, published)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, article.Title, article.Slug, article.Content, article.Excerpt, article.Locale,
		article.CategoryID, article.AuthorName, article.AIGenerated, article.Published).Scan(&article.ID, &article.CreatedAt)
}

func (r *ArticleRepository) AttachImage(id int64, imageURL string) error {
	_, err := r.db.Exec(`
		UPDATE article SET image_url = $1 WHERE id = $2
	`, imageURL, id)
	return err
}

func (r *ArticleRepository) GetFeed(locale string, limit, offset int) ([]model.Article, error) {
	rows, err := r.db.Query(`
		SELECT id, title, slug, content, excerpt, locale, category_id, author_name, ai_generated, COALESCE(image_url, ''), published, created_at
		FROM article
		WHERE published = TRUE AND ($1 = '' OR locale = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, locale, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.Locale,
			&a.CategoryID, &a.AuthorName, &a.AIGenerated, &a.ImageURL, &a.Published, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *ArticleRepository) GetFeedTotal(locale string) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM article WHERE published = TRUE AND ($1 = '' OR locale = $1)
	`, locale).Scan(&total)
	return total, err
}

func (r *ArticleRepository) GetCategories() ([]model.Category, error) {
	rows, err := r.db.Query(`
		SELECT id, name FROM category ORDER BY name ASC
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *ArticleRepository) GetByID(id int64) (*model.Article, error) {
	var a model.Article
	err := r.db.QueryRow(`
		SELECT id, title, slug, content, excerpt, locale, category_id, author_name, ai_generated, COALESCE(image_url, ''), published, created_at
		FROM article
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.Locale,
		&a.CategoryID, &a.AuthorName, &a.AIGenerated, &a.ImageURL, &a.Published, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &a, nil
}
