package ports

import (
	"context"

	"github.com/compliancehub/identity-service/internal/core/domain"
)

// ListUsersFilter narrows and pages the account listing.
type ListUsersFilter struct {
	Role   string
	Search string
	Page   int
	Limit  int
}

// UserRepository defines the persistence contract for accounts. Create and
// Update must surface store-level uniqueness violations as
// domain.ErrDuplicateUsername / domain.ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
