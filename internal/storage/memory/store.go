// Package memory is the in-process counterpart of the SQL store: the same
// repository contract evaluated directly over an owned snapshot, as an
// offline/optimistic client cache would.
package memory

import (
	"context"
	"sync"

	"example.com/taskhub/internal/domain"
	"example.com/taskhub/internal/query"
)

// Store keeps tasks in insertion order so enumeration is stable. All
// methods copy on the way in and out, so no caller ever observes a
// partially-applied mutation.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
	order []string
	users map[string]domain.User
}

func New() *Store {
	return &Store{
		tasks: make(map[string]domain.Task),
		users: make(map[string]domain.User),
	}
}

func (s *Store) ListForUser(_ context.Context, userID string, f query.Filter) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		t := s.tasks[id]
		if !t.CanRead(userID) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	return f.Apply(out), nil
}

func (s *Store) GetByID(_ context.Context, id string) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	return cloneTask(t), nil
}

func (s *Store) Create(_ context.Context, task domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = cloneTask(task)
	s.order = append(s.order, task.ID)
	return cloneTask(task), nil
}

func (s *Store) Update(_ context.Context, task domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tasks[task.ID]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	if current.Version != task.Version {
		return domain.Task{}, domain.ErrConflict
	}
	updated := cloneTask(task)
	updated.Version++
	s.tasks[task.ID] = updated
	return cloneTask(updated), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) AppendComment(_ context.Context, taskID string, c domain.Comment) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return domain.Task{}, domain.ErrNotFound
	}
	updated := cloneTask(t)
	c.TaskID = taskID
	updated.Comments = append(updated.Comments, c)
	updated.UpdatedAt = c.CreatedAt
	s.tasks[taskID] = updated
	return cloneTask(updated), nil
}

func (s *Store) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetRefs(_ context.Context, ids []string) (map[string]domain.UserRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make(map[string]domain.UserRef, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			refs[id] = u.Ref()
		}
	}
	return refs, nil
}

func cloneTask(t domain.Task) domain.Task {
	out := t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.Comments != nil {
		out.Comments = append([]domain.Comment(nil), t.Comments...)
	}
	return out
}
