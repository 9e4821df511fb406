package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/compliancehub/identity-service/internal/api/metrics"
	"github.com/compliancehub/identity-service/internal/core/domain"
	"github.com/compliancehub/identity-service/internal/core/ports"
)

// AuthService implements registration, login and refresh-token exchange.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	revoked ports.RevocationList
	audit   ports.AuditSink
	policy  PasswordPolicy
	log     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	revoked ports.RevocationList,
	audit ports.AuditSink,
	policy PasswordPolicy,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoked: revoked,
		audit:   audit,
		policy:  policy,
		log:     log,
	}
}

// Register validates the payload, enforces username/email uniqueness and the
// password policy, and creates the account. No prior authentication required.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	role := input.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if err := s.policy.Validate(input.Password); err != nil {
		return nil, err
	}

	// Pre-checks give precise errors; the unique indexes remain the
	// authority under concurrent registration races.
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		IsStaff:      role == domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Str("role", created.Role).Msg("user registered")
	s.audit.Record(domain.AuditEvent{
		ActorID:   created.ID,
		Username:  created.Username,
		Action:    domain.AuditRegistered,
		Timestamp: now,
	})

	return created, nil
}

// Login verifies credentials and issues an access/refresh token pair. An
// unknown username and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			s.audit.Record(domain.AuditEvent{
				Username:  username,
				Action:    domain.AuditLoginFailed,
				Timestamp: time.Now().UTC(),
			})
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if s.hasher.Compare(user.PasswordHash, password) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.audit.Record(domain.AuditEvent{
			ActorID:   user.ID,
			Username:  user.Username,
			Action:    domain.AuditLoginFailed,
			Timestamp: time.Now().UTC(),
		})
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.audit.Record(domain.AuditEvent{
		ActorID:   user.ID,
		Username:  user.Username,
		Action:    domain.AuditLoginSucceeded,
		Timestamp: time.Now().UTC(),
	})

	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new access token. The account
// is re-resolved from the store so deleted or revoked accounts cannot mint
// new access tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken, ports.TokenKindRefresh)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.UserID)
	if err != nil {
		return "", err
	}
	if revoked {
		metrics.TokenRefreshesTotal.WithLabelValues("revoked").Inc()
		return "", domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
			return "", domain.ErrInvalidToken
		}
		return "", err
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return "", err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	s.audit.Record(domain.AuditEvent{
		ActorID:   user.ID,
		Username:  user.Username,
		Action:    domain.AuditTokenRefreshed,
		Timestamp: time.Now().UTC(),
	})

	return access, nil
}
