package query

import (
	"time"

	"example.com/taskhub/internal/domain"
)

// Stats summarizes a user's whole accessible task set. The status counts
// partition Total; priority and overdue counts overlay it.
type Stats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"inProgress"`
	Completed      int `json:"completed"`
	Overdue        int `json:"overdue"`
	HighPriority   int `json:"highPriority"`
	MediumPriority int `json:"mediumPriority"`
	LowPriority    int `json:"lowPriority"`
}

// Aggregate computes the counts in one pass. Overdue is evaluated against
// now at call time and never counts a completed task.
func Aggregate(tasks []domain.Task, now time.Time) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusPending:
			s.Pending++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusCompleted:
			s.Completed++
		}
		switch t.Priority {
		case domain.PriorityHigh:
			s.HighPriority++
		case domain.PriorityMedium:
			s.MediumPriority++
		case domain.PriorityLow:
			s.LowPriority++
		}
		if t.Status != domain.StatusCompleted && t.DueDate != nil && t.DueDate.Before(now) {
			s.Overdue++
		}
	}
	return s
}
