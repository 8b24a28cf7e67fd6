package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"example.com/taskhub/internal/domain"
	"example.com/taskhub/internal/query"
)

// setupTestStore opens an in-memory SQLite database and migrates the
// schema.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	s := New(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return s
}

func newTask(id, createdBy string, created time.Time) domain.Task {
	return domain.Task{
		ID:        id,
		Title:     "task " + id,
		Status:    domain.StatusPending,
		Priority:  domain.PriorityMedium,
		CreatedBy: createdBy,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestListForUserScoping(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mine := newTask("t1", "alice", base)
	assigned := newTask("t2", "bob", base.Add(time.Minute))
	assigned.AssignedTo = "alice"
	other := newTask("t3", "bob", base.Add(2*time.Minute))

	for _, task := range []domain.Task{mine, assigned, other} {
		_, err := s.Create(ctx, task)
		require.NoError(t, err)
	}

	got, err := s.ListForUser(ctx, "alice", query.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)

	got, err = s.ListForUser(ctx, "carol", query.Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListForUserFilterIncludingTags(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	a := newTask("t1", "alice", base)
	a.Title = "Fix bug"
	b := newTask("t2", "alice", base.Add(time.Minute))
	b.Title = "Design UI"
	b.Tags = []string{"bugfix"}
	c := newTask("t3", "alice", base.Add(2*time.Minute))
	c.Title = "Unrelated"
	c.Status = domain.StatusCompleted

	for _, task := range []domain.Task{a, b, c} {
		_, err := s.Create(ctx, task)
		require.NoError(t, err)
	}

	got, err := s.ListForUser(ctx, "alice", query.Filter{Search: "bug"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)

	got, err = s.ListForUser(ctx, "alice", query.Filter{Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t3", got[0].ID)
}

func TestGetByIDRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	task := newTask("t1", "alice", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	task.DueDate = &due
	task.Tags = []string{"backend", "urgent"}

	_, err := s.Create(ctx, task)
	require.NoError(t, err)

	got, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, []string{"backend", "urgent"}, got.Tags)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOptimisticVersion(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, newTask("t1", "alice", time.Now().UTC()))
	require.NoError(t, err)

	first, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)
	stale, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)

	first.Title = "winner"
	updated, err := s.Update(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "winner", updated.Title)
	assert.Equal(t, first.Version+1, updated.Version)

	stale.Title = "loser"
	_, err = s.Update(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrConflict)

	missing := newTask("ghost", "alice", time.Now().UTC())
	_, err = s.Update(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateCanClearOptionalFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	task := newTask("t1", "alice", time.Now().UTC())
	task.Description = "old words"
	task.DueDate = &due
	task.AssignedTo = "bob"
	_, err := s.Create(ctx, task)
	require.NoError(t, err)

	current, err := s.GetByID(ctx, "t1")
	require.NoError(t, err)
	current.Description = ""
	current.DueDate = nil
	current.AssignedTo = ""

	updated, err := s.Update(ctx, current)
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
	assert.Nil(t, updated.DueDate)
	assert.Empty(t, updated.AssignedTo)
}

func TestAppendCommentAndDeleteCascade(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, newTask("t1", "alice", time.Now().UTC()))
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err = s.AppendComment(ctx, "t1", domain.Comment{ID: "c1", Text: "first", Author: "alice", CreatedAt: at})
	require.NoError(t, err)
	updated, err := s.AppendComment(ctx, "t1", domain.Comment{ID: "c2", Text: "second", Author: "bob", CreatedAt: at.Add(time.Minute)})
	require.NoError(t, err)

	require.Len(t, updated.Comments, 2)
	assert.Equal(t, "first", updated.Comments[0].Text)
	assert.Equal(t, "second", updated.Comments[1].Text)
	assert.True(t, updated.UpdatedAt.Equal(at.Add(time.Minute)))

	_, err = s.AppendComment(ctx, "missing", domain.Comment{ID: "c3", Text: "x", Author: "alice"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "t1"))
	assert.ErrorIs(t, s.Delete(ctx, "t1"), domain.ErrNotFound)

	var orphaned int64
	require.NoError(t, s.db.Model(&domain.Comment{}).Where("task_id = ?", "t1").Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestUserRefs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	refs, err := s.GetRefs(ctx, []string{"u1", "ghost"})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "alice@example.com", refs["u1"].Email)

	refs, err = s.GetRefs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, refs)
}
