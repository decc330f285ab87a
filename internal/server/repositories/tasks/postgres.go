package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CS-Kiran/Manana/internal/common"
	"github.com/CS-Kiran/Manana/internal/dbx"
	"github.com/CS-Kiran/Manana/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Tags live in a jsonb column, encoded and decoded here so the rest of the
// server only sees []string.
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func (r *PostgresRepository) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {

	tags, err := encodeTags(task.Tags)
	if err != nil {
		return nil, fmt.Errorf("tags encode error: %w", err)
	}

	task.ID = uuid.NewString()

	query :=
		`INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Status, task.Priority, task.DueDate, tags).
		Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	query :=
		`SELECT id, user_id, title, description, status, priority, due_date, tags, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) FindOneByOwnerAndID(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	query :=
		`SELECT id, user_id, title, description, status, priority, due_date, tags, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1 AND id = $2
		 `

	task, err := scanTask(r.db.QueryRowContext(ctx, query, ownerID, taskID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}

	return task, nil
}

// UpdateByOwnerAndID writes every mutable field and stamps updated_at,
// regardless of which fields actually changed. Last write wins; there is no
// version counter.
func (r *PostgresRepository) UpdateByOwnerAndID(ctx context.Context, task *models.Task) (*models.Task, error) {

	tags, err := encodeTags(task.Tags)
	if err != nil {
		return nil, fmt.Errorf("tags encode error: %w", err)
	}

	query :=
		`UPDATE tasks
		 SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, tags = $6, updated_at = now()
		 WHERE user_id = $7 AND id = $8
		 RETURNING updated_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority, task.DueDate, tags,
		task.UserID, task.ID).
		Scan(&task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, taskID string) error {
	query :=
		`DELETE FROM tasks
		 WHERE user_id = $1 AND id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, ownerID, taskID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func scanTask(scan func(dest ...any) error) (*models.Task, error) {
	task := &models.Task{}
	var tags []byte

	err := scan(&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.DueDate, &tags, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(tags, &task.Tags); err != nil {
		return nil, fmt.Errorf("tags decode error: %w", err)
	}

	return task, nil
}
