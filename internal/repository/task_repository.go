package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"sadanews/internal/model"

	"github.com/lib/pq"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Save(task *model.ScheduledTask) error {
	return r.db.QueryRow(`
		INSERT INTO scheduled_task(title, locale, content_type, keywords, prompt_instructions, category_id, auto_publish, generate_image, image_model, status, scheduled_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, task.Title, task.Locale, task.ContentType, pq.Array(task.Keywords), task.PromptInstructions,
		task.CategoryID, task.AutoPublish, task.GenerateImage, task.ImageModel,
		model.StatusPending, task.ScheduledAt).Scan(&task.ID, &task.CreatedAt)
}

func (r *TaskRepository) GetDuePending(now time.Time) ([]model.ScheduledTask, error) {
	rows, err := r.db.Query(`
		SELECT id, title, locale, content_type, keywords, prompt_instructions, category_id, auto_publish, generate_image, image_model, status, scheduled_at, created_at
		FROM scheduled_task
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
	`, model.StatusPending, now)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.ScheduledTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// MarkProcessing atomically claims a pending task. At most one caller wins;
// everyone else sees false and should skip the task silently.
func (r *TaskRepository) MarkProcessing(id int64) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE scheduled_task SET status = $1, started_at = NOW() WHERE id = $2 AND status = $3
	`, model.StatusProcessing, id, model.StatusPending)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SaveExecution moves a task to a terminal status and attaches its execution
// record in one write.
func (r *TaskRepository) SaveExecution(id int64, status string, exec *model.TaskExecution) error {
	logJSON, err := json.Marshal(exec.Log)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		UPDATE scheduled_task
		SET status = $1, execution_ms = $2, tokens_used = $3, cost = $4, article_id = $5, image_url = $6, error_message = $7, execution_log = $8, completed_at = NOW()
		WHERE id = $9
	`, status, exec.ExecutionMs, exec.TokensUsed, exec.Cost, exec.ArticleID, exec.ImageURL, exec.Error, logJSON, id)
	return err
}

// Cancel moves a pending task to cancelled. Returns false if the task was
// already claimed or finished.
func (r *TaskRepository) Cancel(id int64) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE scheduled_task SET status = $1 WHERE id = $2 AND status = $3
	`, model.StatusCancelled, id, model.StatusPending)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *TaskRepository) GetByID(id int64) (*model.ScheduledTask, error) {
	row := r.db.QueryRow(`
		SELECT id, title, locale, content_type, keywords, prompt_instructions, category_id, auto_publish, generate_image, image_model, status, scheduled_at, created_at
		FROM scheduled_task
		WHERE id = $1
	`, id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) List(limit, offset int) ([]model.ScheduledTask, error) {
	rows, err := r.db.Query(`
		SELECT id, title, locale, content_type, keywords, prompt_instructions, category_id, auto_publish, generate_image, image_model, status, scheduled_at, created_at
		FROM scheduled_task
		ORDER BY scheduled_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.ScheduledTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*model.ScheduledTask, error) {
	var t model.ScheduledTask
	err := row.Scan(&t.ID, &t.Title, &t.Locale, &t.ContentType, pq.Array(&t.Keywords), &t.PromptInstructions,
		&t.CategoryID, &t.AutoPublish, &t.GenerateImage, &t.ImageModel, &t.Status, &t.ScheduledAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
