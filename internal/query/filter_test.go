package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/taskhub/internal/domain"
)

func TestFilterAbsenceConstrainsNothing(t *testing.T) {
	tasks := []domain.Task{
		{ID: "1", Title: "a", Status: domain.StatusPending, Priority: domain.PriorityLow},
		{ID: "2", Title: "b", Status: domain.StatusCompleted, Priority: domain.PriorityHigh},
	}
	got := Filter{}.Apply(tasks)
	require.Len(t, got, 2)
}

func TestFilterStatusAndPriorityExactMatch(t *testing.T) {
	tasks := []domain.Task{
		{ID: "1", Status: domain.StatusPending, Priority: domain.PriorityHigh},
		{ID: "2", Status: domain.StatusPending, Priority: domain.PriorityLow},
		{ID: "3", Status: domain.StatusCompleted, Priority: domain.PriorityHigh},
	}

	got := Filter{Status: domain.StatusPending}.Apply(tasks)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)

	got = Filter{Status: domain.StatusPending, Priority: domain.PriorityHigh}.Apply(tasks)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterSearchTitleDescriptionTags(t *testing.T) {
	tasks := []domain.Task{
		{ID: "1", Title: "Fix bug"},
		{ID: "2", Title: "Design UI", Tags: []string{"bugfix"}},
		{ID: "3", Title: "Unrelated"},
		{ID: "4", Title: "Misc", Description: "debug the BUG in prod"},
	}

	got := Filter{Search: "bug"}.Apply(tasks)
	require.Len(t, got, 3)
	// Original relative order is preserved.
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "4", got[2].ID)
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	tasks := []domain.Task{
		{ID: "1", Title: "URGENT fix"},
		{ID: "2", Tags: []string{"Urgent"}},
		{ID: "3", Title: "calm"},
	}
	got := Filter{Search: "urgent"}.Apply(tasks)
	require.Len(t, got, 2)
}

func TestFilterCriteriaCombineWithAnd(t *testing.T) {
	tasks := []domain.Task{
		{ID: "1", Title: "bug hunt", Status: domain.StatusPending},
		{ID: "2", Title: "bug bash", Status: domain.StatusCompleted},
		{ID: "3", Title: "cleanup", Status: domain.StatusPending},
	}
	got := Filter{Status: domain.StatusPending, Search: "bug"}.Apply(tasks)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterResultIsSubset(t *testing.T) {
	tasks := []domain.Task{
		{ID: "1", Status: domain.StatusPending},
		{ID: "2", Status: domain.StatusInProgress},
	}
	got := Filter{Status: domain.StatusInProgress}.Apply(tasks)
	for _, g := range got {
		found := false
		for _, orig := range tasks {
			if orig.ID == g.ID {
				found = true
			}
		}
		assert.True(t, found)
	}
}
