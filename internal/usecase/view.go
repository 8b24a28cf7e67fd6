package usecase

import (
	"context"
	"fmt"
	"time"

	"example.com/taskhub/internal/domain"
)

// TaskView is a task with its user references resolved for display,
// matching the populated documents the REST API returns.
type TaskView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	CreatedBy   domain.UserRef  `json:"createdBy"`
	AssignedTo  *domain.UserRef `json:"assignedTo,omitempty"`
	Comments    []CommentView   `json:"comments"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CommentView struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Author    domain.UserRef `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (s *TaskService) hydrateOne(ctx context.Context, task domain.Task) (TaskView, error) {
	views, err := s.hydrate(ctx, []domain.Task{task})
	if err != nil {
		return TaskView{}, err
	}
	return views[0], nil
}

// hydrate resolves every user id referenced by the tasks in one lookup.
// Ids the directory does not know fall back to a bare ref.
func (s *TaskService) hydrate(ctx context.Context, tasks []domain.Task) ([]TaskView, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(tasks)*2)
	collect := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, t := range tasks {
		collect(t.CreatedBy)
		collect(t.AssignedTo)
		for _, c := range t.Comments {
			collect(c.Author)
		}
	}

	refs := map[string]domain.UserRef{}
	if len(ids) > 0 {
		var err error
		refs, err = s.users.GetRefs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve users: %w", err)
		}
	}
	ref := func(id string) domain.UserRef {
		if r, ok := refs[id]; ok {
			return r
		}
		return domain.UserRef{ID: id}
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		v := TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			DueDate:     t.DueDate,
			Tags:        t.Tags,
			CreatedBy:   ref(t.CreatedBy),
			Comments:    make([]CommentView, 0, len(t.Comments)),
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		}
		if t.AssignedTo != "" {
			r := ref(t.AssignedTo)
			v.AssignedTo = &r
		}
		for _, c := range t.Comments {
			v.Comments = append(v.Comments, CommentView{
				ID:        c.ID,
				Text:      c.Text,
				Author:    ref(c.Author),
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, v)
	}
	return views, nil
}
