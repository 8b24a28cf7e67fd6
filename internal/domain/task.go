package domain

import (
	"time"
	"unicode/utf8"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	TitleMaxLen = 200
)

// Task is the aggregate root. Comments are owned by the task and are
// append-only from the API's perspective. Version is the optimistic
// concurrency token maintained by the stores.
type Task struct {
	ID          string     `gorm:"primarykey;size:36" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:2000" json:"description,omitempty"`
	Status      string     `gorm:"size:20;not null;default:pending" json:"status"`
	Priority    string     `gorm:"size:10;not null;default:medium" json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `gorm:"serializer:json" json:"tags,omitempty"`
	CreatedBy   string     `gorm:"size:36;not null;index" json:"createdBy"`
	AssignedTo  string     `gorm:"size:36;index" json:"assignedTo,omitempty"`
	Comments    []Comment  `gorm:"foreignKey:TaskID" json:"comments"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Version     int64      `gorm:"not null;default:0" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// Comment lives inside its parent task and is never addressed on its own.
type Comment struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"-"`
	Text      string    `gorm:"size:1000;not null" json:"text"`
	Author    string    `gorm:"size:36;not null" json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Comment) TableName() string {
	return "task_comments"
}

// CanRead reports whether userID may see the task: its creator or its
// assignee. A task with no assignee is visible only to its creator.
func (t Task) CanRead(userID string) bool {
	if t.CreatedBy == userID {
		return true
	}
	return t.AssignedTo != "" && t.AssignedTo == userID
}

// CanWrite covers field updates and comment appends. Same predicate as
// CanRead.
func (t Task) CanWrite(userID string) bool {
	return t.CanRead(userID)
}

// CanDelete is stricter: only the creator may delete.
func (t Task) CanDelete(userID string) bool {
	return t.CreatedBy == userID
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Validate checks the writable fields, collecting every offending field
// into one ValidationError so no partial write ever happens.
func (t Task) Validate() error {
	v := &ValidationError{}
	if t.Title == "" {
		v.Add("title", "is required")
	} else if utf8.RuneCountInString(t.Title) > TitleMaxLen {
		v.Add("title", "must be at most 200 characters")
	}
	if !ValidStatus(t.Status) {
		v.Add("status", "must be one of pending, in-progress, completed")
	}
	if !ValidPriority(t.Priority) {
		v.Add("priority", "must be one of low, medium, high")
	}
	if t.CreatedBy == "" {
		v.Add("createdBy", "is required")
	}
	if v.Empty() {
		return nil
	}
	return v
}

// Validate checks a comment before it is appended.
func (c Comment) Validate() error {
	v := &ValidationError{}
	if c.Text == "" {
		v.Add("text", "is required")
	}
	if c.Author == "" {
		v.Add("author", "is required")
	}
	if v.Empty() {
		return nil
	}
	return v
}
