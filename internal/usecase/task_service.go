// Package usecase composes authorization, filtering, sorting, windowing
// and aggregation into one contract. The same service runs unchanged on
// top of the SQL store and the in-memory store.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"example.com/taskhub/internal/domain"
	"example.com/taskhub/internal/query"
	"example.com/taskhub/internal/repository"
)

// conflictRetries bounds how often an optimistic-version conflict is
// retried before it surfaces to the caller.
const conflictRetries = 3

type TaskService struct {
	repo  repository.TaskRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewTaskService(repo repository.TaskRepository, users repository.UserRepository) *TaskService {
	return &TaskService{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

// CreateInput carries the caller-writable fields of a new task.
type CreateInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	Tags        []string
	AssignedTo  string
}

// UpdateInput is the explicit patch whitelist: nil means "leave alone".
// ClearDueDate removes the due date since a nil DueDate cannot express
// that.
type UpdateInput struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *[]string
	AssignedTo   *string
}

// QueryResult is the façade's answer: one page of hydrated tasks plus the
// window metadata.
type QueryResult struct {
	Items []TaskView
	Meta  query.Meta
}

// Query returns exactly the tasks the user may read that match the
// filter, ordered by the comparator and sliced by the windower. Meta.Total
// reflects the filtered set, not the raw authorized set.
func (s *TaskService) Query(ctx context.Context, userID string, f query.Filter, srt query.Sort, p query.Page) (QueryResult, error) {
	if err := srt.Validate(); err != nil {
		return QueryResult{}, err
	}
	if err := p.Validate(); err != nil {
		return QueryResult{}, err
	}
	candidates, err := s.repo.ListForUser(ctx, userID, f)
	if err != nil {
		return QueryResult{}, fmt.Errorf("list tasks: %w", err)
	}
	srt.Apply(candidates)
	items, meta := p.Window(candidates)
	views, err := s.hydrate(ctx, items)
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Items: views, Meta: meta}, nil
}

// Get discriminates nonexistence from lack of access: ErrNotFound when the
// id is unknown, ErrForbidden when the task exists but the caller may not
// read it.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (TaskView, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return TaskView{}, err
	}
	if !task.CanRead(userID) {
		return TaskView{}, domain.ErrForbidden
	}
	return s.hydrateOne(ctx, task)
}

func (s *TaskService) Create(ctx context.Context, userID string, in CreateInput) (TaskView, error) {
	now := s.now()
	task := domain.Task{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		CreatedBy:   userID,
		AssignedTo:  in.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		return TaskView{}, err
	}
	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return TaskView{}, fmt.Errorf("create task: %w", err)
	}
	return s.hydrateOne(ctx, created)
}

// Update applies the patch under the write predicate, retrying a bounded
// number of times when the store reports a concurrent modification.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, in UpdateInput) (TaskView, error) {
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		task, err := s.repo.GetByID(ctx, taskID)
		if err != nil {
			return TaskView{}, err
		}
		if !task.CanWrite(userID) {
			return TaskView{}, domain.ErrForbidden
		}
		applyPatch(&task, in)
		task.UpdatedAt = s.now()
		if err := task.Validate(); err != nil {
			return TaskView{}, err
		}
		updated, err := s.repo.Update(ctx, task)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return TaskView{}, fmt.Errorf("update task: %w", err)
		}
		return s.hydrateOne(ctx, updated)
	}
	return TaskView{}, domain.ErrConflict
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !task.CanDelete(userID) {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, taskID)
}

// AddComment appends atomically; owner and assignee may comment.
func (s *TaskService) AddComment(ctx context.Context, userID, taskID, text string) (TaskView, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return TaskView{}, err
	}
	if !task.CanWrite(userID) {
		return TaskView{}, domain.ErrForbidden
	}
	comment := domain.Comment{
		ID:        uuid.New().String(),
		Text:      text,
		Author:    userID,
		CreatedAt: s.now(),
	}
	if err := comment.Validate(); err != nil {
		return TaskView{}, err
	}
	var updated domain.Task
	for attempt := 0; ; attempt++ {
		updated, err = s.repo.AppendComment(ctx, taskID, comment)
		if errors.Is(err, domain.ErrConflict) && attempt < conflictRetries {
			continue
		}
		break
	}
	if err != nil {
		return TaskView{}, err
	}
	return s.hydrateOne(ctx, updated)
}

// Stats aggregates over the user's whole accessible set, untouched by any
// filter. Overdue is evaluated at call time.
func (s *TaskService) Stats(ctx context.Context, userID string) (query.Stats, error) {
	tasks, err := s.repo.ListForUser(ctx, userID, query.Filter{})
	if err != nil {
		return query.Stats{}, fmt.Errorf("list tasks: %w", err)
	}
	return query.Aggregate(tasks, s.now()), nil
}

func applyPatch(t *domain.Task, in UpdateInput) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.ClearDueDate {
		t.DueDate = nil
	} else if in.DueDate != nil {
		d := *in.DueDate
		t.DueDate = &d
	}
	if in.Tags != nil {
		t.Tags = append([]string(nil), (*in.Tags)...)
	}
	if in.AssignedTo != nil {
		t.AssignedTo = *in.AssignedTo
	}
}
