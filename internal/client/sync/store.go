// Package sync keeps an in-memory mirror of the user's tasks on top of the
// API client. Reads are served locally; mutations follow one of two modes:
//
//   - pessimistic (Create, Edit): the server is asked first and the mirror is
//     updated from its response;
//   - optimistic (ToggleStatus, Delete): the mirror is updated immediately and
//     rolled back to the pre-call snapshot if the server rejects the change.
package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/CS-Kiran/Manana/internal/client/api"
	"github.com/CS-Kiran/Manana/internal/server/models"
	"github.com/CS-Kiran/Manana/internal/timex"
)

// ErrDueDateInPast rejects due dates before today. The check works on
// calendar days: today itself is allowed.
var ErrDueDateInPast = errors.New("due date cannot be in the past")

// ErrTaskNotFound reports a task id absent from the local mirror.
var ErrTaskNotFound = errors.New("task not found")

type Store struct {
	mu    sync.Mutex
	api   api.Client
	tasks []*models.Task // mirror of the server order, newest first
}

func NewStore(c api.Client) *Store {
	return &Store{api: c, tasks: []*models.Task{}}
}

// Refresh replaces the mirror with the server's current task list.
func (s *Store) Refresh(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	return nil
}

// Tasks returns a snapshot of the mirror. Mutating the returned tasks does
// not affect the store.
func (s *Store) Tasks() []*models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

func cloneAll(tasks []*models.Task) []*models.Task {
	result := make([]*models.Task, len(tasks))
	for i, t := range tasks {
		result[i] = t.Clone()
	}
	return result
}

// indexOf returns the mirror position of the task or -1. Callers hold s.mu.
func (s *Store) indexOf(taskID string) int {
	for i, t := range s.tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// dueDateAcceptable compares calendar days, not instants: a date-only value
// parsed at midnight UTC still counts as today in every zone.
func dueDateAcceptable(dueDate *time.Time) bool {
	if dueDate == nil {
		return true
	}
	return !timex.BeforeDay(*dueDate, time.Now())
}

// Create validates the draft locally, submits it and prepends the created
// task to the mirror, matching the server's newest-first ordering.
func (s *Store) Create(ctx context.Context, draft api.TaskDraft) (*models.Task, error) {
	if !dueDateAcceptable(draft.DueDate) {
		return nil, ErrDueDateInPast
	}

	task, err := s.api.CreateTask(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]*models.Task{task.Clone()}, s.tasks...)
	return task, nil
}

// Edit submits a partial update and replaces the mirrored task in place with
// the server's response.
func (s *Store) Edit(ctx context.Context, taskID string, patch api.TaskPatch) (*models.Task, error) {
	if patch.DueDate != nil && !dueDateAcceptable(patch.DueDate) {
		return nil, ErrDueDateInPast
	}

	task, err := s.api.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(taskID); i >= 0 {
		s.tasks[i] = task.Clone()
	}
	return task, nil
}

// ToggleStatus flips the task's status in the mirror first, then confirms
// with the server. On rejection the snapshot is restored at its original
// position so the visible order never changes.
func (s *Store) ToggleStatus(ctx context.Context, taskID string) (*models.Task, error) {
	s.mu.Lock()
	i := s.indexOf(taskID)
	if i < 0 {
		s.mu.Unlock()
		return nil, ErrTaskNotFound
	}

	snapshot := s.tasks[i].Clone()

	if s.tasks[i].Status == models.StatusCompleted {
		s.tasks[i].Status = models.StatusTodo
	} else {
		s.tasks[i].Status = models.StatusCompleted
	}
	s.mu.Unlock()

	task, err := s.api.ToggleTask(ctx, taskID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if j := s.indexOf(taskID); j >= 0 {
			s.tasks[j] = snapshot
		}
		return nil, err
	}

	if j := s.indexOf(taskID); j >= 0 {
		s.tasks[j] = task.Clone()
	}
	return task, nil
}

// Delete removes the task from the mirror first, then confirms with the
// server. On rejection the task is reinserted at its original position.
func (s *Store) Delete(ctx context.Context, taskID string) error {
	s.mu.Lock()
	i := s.indexOf(taskID)
	if i < 0 {
		s.mu.Unlock()
		return ErrTaskNotFound
	}

	snapshot := s.tasks[i].Clone()
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.mu.Unlock()

	err := s.api.DeleteTask(ctx, taskID)

	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()

		if i > len(s.tasks) {
			i = len(s.tasks)
		}
		s.tasks = append(s.tasks[:i], append([]*models.Task{snapshot}, s.tasks[i:]...)...)
		return err
	}

	return nil
}
