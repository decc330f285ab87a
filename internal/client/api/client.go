// Package api implements the HTTP client for the Manana backend. It owns the
// session token pair, persists it between runs and transparently refreshes an
// expired access token.
package api

import (
	"context"
	"time"

	"github.com/CS-Kiran/Manana/internal/server/models"
)

// TaskDraft carries the fields for a new task. Empty Status and Priority let
// the server apply its defaults.
type TaskDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      models.Status   `json:"status,omitempty"`
	Priority    models.Priority `json:"priority,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
}

// TaskPatch is a partial task update: nil fields are left untouched.
type TaskPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *models.Status   `json:"status,omitempty"`
	Priority    *models.Priority `json:"priority,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
}

// Client is the backend surface the rest of the CLI talks to.
type Client interface {
	Signup(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) error
	GoogleSignIn(ctx context.Context, email, name, subjectID string) error
	Logout() error
	IsAuthenticated() bool
	Me(ctx context.Context) (*models.User, error)

	ListTasks(ctx context.Context) ([]*models.Task, error)
	CreateTask(ctx context.Context, draft TaskDraft) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch TaskPatch) (*models.Task, error)
	ToggleTask(ctx context.Context, taskID string) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error

	Ping(ctx context.Context) error
}
