package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound means the referenced task id does not exist at all.
	ErrNotFound = errors.New("task not found")
	// ErrForbidden means the task exists but the caller fails the
	// authorization predicate. Callers must be able to tell this apart
	// from ErrNotFound.
	ErrForbidden = errors.New("not authorized for this task")
	// ErrConflict means a concurrent mutation was detected; the service
	// retries a bounded number of times before surfacing it.
	ErrConflict = errors.New("task was modified concurrently")
)

// ValidationError names every offending field of a rejected write.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, reason)
	return v
}

func (v *ValidationError) Add(field, reason string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	v.Fields[field] = reason
}

func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(v.Fields))
	for f := range v.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s %s", f, v.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
