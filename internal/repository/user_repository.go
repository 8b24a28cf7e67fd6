package repository

import (
	"context"

	"example.com/taskhub/internal/domain"
)

// UserRepository resolves opaque user ids into display references. The
// query subsystem never reads any other user field.
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	// GetRefs returns refs for the requested ids; unknown ids are simply
	// absent from the result.
	GetRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error)
}
