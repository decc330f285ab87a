package sync

import (
	"sort"
	"strings"

	"github.com/CS-Kiran/Manana/internal/server/models"
)

// Filter narrows the task view. Zero values mean "no constraint". Text is
// matched case-insensitively against title, description and tags.
type Filter struct {
	Text     string
	Status   models.Status
	Priority models.Priority
}

func (f Filter) matches(t *models.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			return true
		}
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				return true
			}
		}
		return false
	}
	return true
}

// View returns the filtered mirror sorted for display: high priority first,
// newest first within the same priority.
func (s *Store) View(f Filter) []*models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*models.Task{}
	for _, t := range s.tasks {
		if f.matches(t) {
			result = append(result, t.Clone())
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Priority.Rank() != result[j].Priority.Rank() {
			return result[i].Priority.Rank() < result[j].Priority.Rank()
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

// Stats summarizes the mirror by status.
type Stats struct {
	Total      int
	Todo       int
	InProgress int
	Completed  int
}

// CompletionRate reports the completed share in [0, 1]. An empty store
// counts as zero.
func (st Stats) CompletionRate() float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(st.Completed) / float64(st.Total)
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		switch t.Status {
		case models.StatusTodo:
			st.Todo++
		case models.StatusInProgress:
			st.InProgress++
		case models.StatusCompleted:
			st.Completed++
		}
	}
	return st
}
