package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"example.com/taskhub/internal/domain"
)

func TestAggregateWorkload(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	tasks := []domain.Task{
		{Status: domain.StatusPending, Priority: domain.PriorityHigh, DueDate: &yesterday},
		{Status: domain.StatusCompleted, Priority: domain.PriorityLow, DueDate: &yesterday},
	}

	stats := Aggregate(tasks, now)
	assert.Equal(t, Stats{
		Total:        2,
		Pending:      1,
		Completed:    1,
		Overdue:      1,
		HighPriority: 1,
		LowPriority:  1,
	}, stats)
}

func TestAggregateStatusCountsPartitionTotal(t *testing.T) {
	now := time.Now()
	tasks := []domain.Task{
		{Status: domain.StatusPending},
		{Status: domain.StatusPending},
		{Status: domain.StatusInProgress},
		{Status: domain.StatusCompleted},
	}
	stats := Aggregate(tasks, now)
	assert.Equal(t, stats.Total, stats.Pending+stats.InProgress+stats.Completed)
}

func TestAggregateOverdueRules(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tasks := []domain.Task{
		// Completed tasks are never overdue, past due date or not.
		{Status: domain.StatusCompleted, DueDate: &past},
		// No due date, no overdue.
		{Status: domain.StatusPending},
		// Future due date is not overdue yet.
		{Status: domain.StatusPending, DueDate: &future},
		{Status: domain.StatusInProgress, DueDate: &past},
	}
	stats := Aggregate(tasks, now)
	assert.Equal(t, 1, stats.Overdue)
}

func TestAggregateDueExactlyNowIsNotOverdue(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	tasks := []domain.Task{{Status: domain.StatusPending, DueDate: &now}}
	assert.Equal(t, 0, Aggregate(tasks, now).Overdue)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Aggregate(nil, time.Now()))
}
