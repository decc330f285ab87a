package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusTodo.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("done").Valid())
	assert.False(t, Status("").Valid())
}

func TestPriorityValidAndRank(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())

	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestTaskClone_IsDeep(t *testing.T) {
	due := time.Now()
	orig := &Task{ID: "t1", Title: "a", DueDate: &due, Tags: []string{"x", "y"}}

	c := orig.Clone()
	c.Tags[0] = "mutated"
	*c.DueDate = due.Add(time.Hour)

	assert.Equal(t, "x", orig.Tags[0])
	assert.Equal(t, due, *orig.DueDate)
}
