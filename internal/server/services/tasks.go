package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/CS-Kiran/Manana/internal/common"
	"github.com/CS-Kiran/Manana/internal/server/config"
	"github.com/CS-Kiran/Manana/internal/server/models"
	"github.com/CS-Kiran/Manana/internal/server/repositories/repomanager"
)

// CreateTaskInput carries the client-supplied fields for a new task.
// Zero values fall back to the store defaults (status todo, priority medium).
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.Status
	Priority    models.Priority
	DueDate     *time.Time
	Tags        []string
}

// TaskPatch is a partial update: nil fields are left untouched. There is no
// way to clear a due date through a patch; that matches the dashboard, which
// always resubmits the full form on edit.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *models.Status
	Priority    *models.Priority
	DueDate     *time.Time
	Tags        *[]string
}

type TaskService struct {
	db           *sql.DB
	repos        repomanager.RepositoryManager
	queryTimeout time.Duration
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *TaskService {
	return &TaskService{db: db, repos: m, queryTimeout: cfg.QueryTimeout}
}

func (s *TaskService) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// dedupTags trims each tag, drops empties, and suppresses duplicates while
// preserving first-seen order.
func dedupTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func (s *TaskService) Create(ctx context.Context, ownerID string, input CreateTaskInput) (*models.Task, error) {

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, common.ErrTitleRequired
	}

	status := input.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return nil, common.ErrInvalidStatus
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, common.ErrInvalidPriority
	}

	task := &models.Task{
		UserID:      ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
		Tags:        dedupTags(input.Tags),
	}

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	task, err := s.repos.Tasks(s.db).Insert(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}

	return task, nil
}

// List returns the owner's tasks ordered by creation time, newest first.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]*models.Task, error) {
	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	result, err := s.repos.Tasks(s.db).FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return result, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	return s.repos.Tasks(s.db).FindOneByOwnerAndID(ctx, ownerID, taskID)
}

// Update applies a partial patch. The updated timestamp is stamped on every
// call even when the patch changes nothing. Last write wins; concurrent
// edits to the same task are not detected.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch TaskPatch) (*models.Task, error) {

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	repo := s.repos.Tasks(s.db)

	task, err := repo.FindOneByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, common.ErrTitleRequired
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, common.ErrInvalidStatus
		}
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, common.ErrInvalidPriority
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Tags != nil {
		task.Tags = dedupTags(*patch.Tags)
	}

	task, err = repo.UpdateByOwnerAndID(ctx, task)
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	return s.repos.Tasks(s.db).DeleteByOwnerAndID(ctx, ownerID, taskID)
}

// ToggleStatus flips a task between completed and todo: a completed task
// reopens, anything else completes. The dashboard exposes this as the single
// check control on each task row.
func (s *TaskService) ToggleStatus(ctx context.Context, ownerID, taskID string) (*models.Task, error) {

	ctx, cancel := s.withQueryTimeout(ctx)
	defer cancel()

	repo := s.repos.Tasks(s.db)

	task, err := repo.FindOneByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.StatusCompleted {
		task.Status = models.StatusTodo
	} else {
		task.Status = models.StatusCompleted
	}

	return repo.UpdateByOwnerAndID(ctx, task)
}
