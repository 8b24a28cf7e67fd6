// Package query holds the filter/sort/paginate/aggregate pipeline. Every
// stage is a pure function over its input snapshot, so the same semantics
// hold whether the candidate set came from the SQL store or the in-memory
// cache.
package query

import (
	"strings"

	"example.com/taskhub/internal/domain"
)

// Filter narrows a candidate set. An unset field constrains nothing;
// active criteria combine with AND.
type Filter struct {
	Status   string
	Priority string
	Search   string
}

func (f Filter) IsZero() bool {
	return f.Status == "" && f.Priority == "" && f.Search == ""
}

// Match reports whether the task satisfies every set criterion. This is
// the single source of truth for filter semantics: the SQL store may push
// equality criteria into its WHERE clause as an optimization, but Match is
// always re-applied so both stores agree by construction.
func (f Filter) Match(t domain.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Search != "" && !f.matchSearch(t) {
		return false
	}
	return true
}

// matchSearch is a case-insensitive substring match over title,
// description and each tag.
func (f Filter) matchSearch(t domain.Task) bool {
	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Apply keeps the matching tasks, preserving input order.
func (f Filter) Apply(tasks []domain.Task) []domain.Task {
	if f.IsZero() {
		return tasks
	}
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
