package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	tasksync "github.com/CS-Kiran/Manana/internal/client/sync"
	"github.com/CS-Kiran/Manana/internal/server/models"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want tasksync.Filter
	}{
		{"empty", nil, tasksync.Filter{}},
		{"status word", []string{"completed"}, tasksync.Filter{Status: models.StatusCompleted}},
		{"priority word", []string{"high"}, tasksync.Filter{Priority: models.PriorityHigh}},
		{"free text", []string{"buy", "milk"}, tasksync.Filter{Text: "buy milk"}},
		{"mixed", []string{"todo", "high", "rent"},
			tasksync.Filter{Status: models.StatusTodo, Priority: models.PriorityHigh, Text: "rent"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseFilter(tc.args))
		})
	}
}

func TestFormatTask(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task := &models.Task{
		Title:    "Pay rent",
		Status:   models.StatusTodo,
		Priority: models.PriorityHigh,
		DueDate:  &due,
		Tags:     []string{"home", "money"},
	}

	got := formatTask(3, task)
	assert.Contains(t, got, "3. [ ]")
	assert.Contains(t, got, "Pay rent")
	assert.Contains(t, got, "(due 2026-09-15)")
	assert.Contains(t, got, "#home #money")

	task.Status = models.StatusCompleted
	assert.Contains(t, formatTask(1, task), "[x]")
}
