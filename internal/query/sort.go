package query

import (
	"sort"
	"strings"
	"time"

	"example.com/taskhub/internal/domain"
)

const (
	SortByCreatedAt = "createdAt"
	SortByDueDate   = "dueDate"
	SortByPriority  = "priority"
	SortByTitle     = "title"
	SortByStatus    = "status"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Sort describes the requested ordering. The zero value means the
// default: createdAt descending.
type Sort struct {
	Field string
	Order string
}

// DefaultSort mirrors the original API default of newest-first.
func DefaultSort() Sort {
	return Sort{Field: SortByCreatedAt, Order: OrderDesc}
}

func (s Sort) Validate() error {
	switch s.Field {
	case "", SortByCreatedAt, SortByDueDate, SortByPriority, SortByTitle, SortByStatus:
	default:
		return domain.NewValidationError("sortBy", "unknown sort field")
	}
	switch s.Order {
	case "", OrderAsc, OrderDesc:
	default:
		return domain.NewValidationError("sortOrder", "must be asc or desc")
	}
	return nil
}

// priorityRank maps priorities for ordering; anything unrecognized ranks
// below low.
func priorityRank(p string) int {
	switch p {
	case domain.PriorityHigh:
		return 3
	case domain.PriorityMedium:
		return 2
	case domain.PriorityLow:
		return 1
	}
	return 0
}

// farFuture stands in for a missing due date so undated tasks never
// interleave with dated ones: last ascending, first descending.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// compare returns -1, 0 or 1 for the ascending order of the sort field.
func (s Sort) compare(a, b domain.Task) int {
	field := s.Field
	if field == "" {
		field = SortByCreatedAt
	}
	switch field {
	case SortByDueDate:
		return compareTimes(orFarFuture(a.DueDate), orFarFuture(b.DueDate))
	case SortByPriority:
		return compareInts(priorityRank(a.Priority), priorityRank(b.Priority))
	case SortByTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case SortByStatus:
		return strings.Compare(strings.ToLower(a.Status), strings.ToLower(b.Status))
	default:
		return compareTimes(a.CreatedAt, b.CreatedAt)
	}
}

// Apply orders tasks in place. The sort is stable: ties keep the relative
// order of the input, which is the store's stable enumeration order.
func (s Sort) Apply(tasks []domain.Task) {
	desc := s.Order == OrderDesc || (s.Order == "" && s.Field == "")
	sort.SliceStable(tasks, func(i, j int) bool {
		c := s.compare(tasks[i], tasks[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func orFarFuture(t *time.Time) time.Time {
	if t == nil {
		return farFuture
	}
	return *t
}

func compareTimes(a, b time.Time) int {
	if a.Before(b) {
		return -1
	}
	if a.After(b) {
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
