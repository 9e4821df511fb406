package ports

import (
	"context"

	"github.com/compliancehub/identity-service/internal/core/domain"
)

// RegisterInput carries the registration payload. Role may be empty, in which
// case domain.DefaultRole applies.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AuthService covers the unauthenticated surface: registration, login and
// refresh-token exchange.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}
