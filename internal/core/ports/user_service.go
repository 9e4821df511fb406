package ports

import (
	"context"

	"github.com/compliancehub/identity-service/internal/core/domain"
)

// UpdateUserInput is a partial update: nil fields are left untouched.
// IsStaff may only be changed by a staff caller.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
	IsStaff  *bool
}

// ListUsersResult is the paged listing returned to staff callers.
type ListUsersResult struct {
	Items      []domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService covers the authenticated account surface. Every operation
// re-resolves the caller from the store: a valid token whose account no
// longer exists fails with domain.ErrInvalidToken.
type UserService interface {
	Profile(ctx context.Context, callerID string) (*domain.User, error)
	List(ctx context.Context, callerID string, filter ListUsersFilter) (*ListUsersResult, error)
	Update(ctx context.Context, callerID, targetID string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, callerID, targetID string) error
}
