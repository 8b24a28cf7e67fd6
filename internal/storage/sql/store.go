// Package sqlstore persists tasks with GORM. It implements the same
// repository contract as the memory store; query.Filter.Match stays the
// semantic source of truth, the WHERE clause only narrows what is scanned.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"example.com/taskhub/internal/domain"
	"example.com/taskhub/internal/query"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the schema.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&domain.Task{}, &domain.Comment{}, &domain.User{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) ListForUser(ctx context.Context, userID string, f query.Filter) ([]domain.Task, error) {
	q := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Where("created_by = ? OR assigned_to = ?", userID, userID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}

	var tasks []domain.Task
	if err := q.Order("created_at, id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	// The search criterion spans tags, which live in a serialized column;
	// re-applying Match keeps both stores identical by construction.
	if f.IsZero() {
		return tasks, nil
	}
	out := tasks[:0]
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (domain.Task, error) {
	var task domain.Task
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Task{}, domain.ErrNotFound
		}
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *Store) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Update persists the writable fields only when the stored version still
// matches task.Version, so concurrent writers surface as ErrConflict
// instead of silently overwriting each other.
func (s *Store) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	next := task
	next.Version = task.Version + 1
	res := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Select("title", "description", "status", "priority", "due_date", "tags", "assigned_to", "updated_at", "version").
		Updates(next)
	if res.Error != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetByID(ctx, task.ID); errors.Is(err, domain.ErrNotFound) {
			return domain.Task{}, domain.ErrNotFound
		}
		return domain.Task{}, domain.ErrConflict
	}
	return s.GetByID(ctx, task.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Comment{}, "task_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		res := tx.Delete(&domain.Task{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// AppendComment runs as one transaction: a single INSERT on the comments
// table plus a touch of the parent's updated_at, so concurrent appends
// never lose each other.
func (s *Store) AppendComment(ctx context.Context, taskID string, c domain.Comment) (domain.Task, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&domain.Task{}).Where("id = ?", taskID).Count(&exists).Error; err != nil {
			return fmt.Errorf("check task: %w", err)
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
		c.TaskID = taskID
		if err := tx.Create(&c).Error; err != nil {
			return fmt.Errorf("append comment: %w", err)
		}
		if err := tx.Model(&domain.Task{}).Where("id = ?", taskID).
			Update("updated_at", c.CreatedAt).Error; err != nil {
			return fmt.Errorf("touch task: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	return s.GetByID(ctx, taskID)
}

func (s *Store) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Store) GetRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error) {
	refs := make(map[string]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var users []domain.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	for _, u := range users {
		refs[u.ID] = u.Ref()
	}
	return refs, nil
}
