package repository

import (
	"context"

	"example.com/taskhub/internal/domain"
	"example.com/taskhub/internal/query"
)

// TaskRepository is the one capability the query subsystem needs from a
// store: authorized, filtered enumeration in a stable order, plus CRUD and
// an atomic comment append.
//
// ListForUser must return only tasks the user may read (creator or
// assignee) and must apply the filter with the exact semantics of
// query.Filter.Match. Enumeration order is arbitrary but stable across
// calls over an unchanged set.
type TaskRepository interface {
	ListForUser(ctx context.Context, userID string, f query.Filter) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	// Update persists the task if its Version still matches the stored
	// one, returning domain.ErrConflict otherwise.
	Update(ctx context.Context, task domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id string) error
	// AppendComment adds the comment to task.Comments as a single atomic
	// store operation and returns the updated task.
	AppendComment(ctx context.Context, taskID string, c domain.Comment) (domain.Task, error)
}
