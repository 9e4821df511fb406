package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/compliancehub/identity-service/internal/core/domain"
	"github.com/compliancehub/identity-service/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService implements the authenticated account operations. Token claims
// are never trusted for authorization: the caller is re-loaded from the store
// on every call.
type UserService struct {
	users      ports.UserRepository
	hasher     ports.PasswordHasher
	revoked    ports.RevocationList
	audit      ports.AuditSink
	policy     PasswordPolicy
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	revoked ports.RevocationList,
	audit ports.AuditSink,
	policy PasswordPolicy,
	refreshTTL time.Duration,
	log zerolog.Logger,
) *UserService {
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &UserService{
		users:      users,
		hasher:     hasher,
		revoked:    revoked,
		audit:      audit,
		policy:     policy,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

// canModify is the owner-or-staff rule governing update and delete.
func canModify(caller *domain.User, targetID string) bool {
	return caller.IsStaff || caller.ID == targetID
}

// resolveCaller loads the caller's account. A token whose account no longer
// exists authenticates nobody, so absence maps to ErrInvalidToken, not 404.
func (s *UserService) resolveCaller(ctx context.Context, callerID string) (*domain.User, error) {
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return caller, nil
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context, callerID string) (*domain.User, error) {
	return s.resolveCaller(ctx, callerID)
}

// List returns a page of accounts. Staff only.
func (s *UserService) List(ctx context.Context, callerID string, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	caller, err := s.resolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		return nil, domain.ErrForbidden
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial update to the target account. Permitted iff the
// caller is the target or staff. Uniqueness is re-validated when username or
// email change; the store's unique indexes still back concurrent writers.
func (s *UserService) Update(ctx context.Context, callerID, targetID string, input ports.UpdateUserInput) (*domain.User, error) {
	caller, err := s.resolveCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !canModify(caller, targetID) {
		return nil, domain.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != target.Username {
		if *input.Username == "" {
			return nil, domain.ErrMissingFields
		}
		if _, err := s.users.FindByUsername(ctx, *input.Username); err == nil {
			return nil, domain.ErrDuplicateUsername
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		target.Username = *input.Username
	}

	if input.Email != nil && *input.Email != target.Email {
		if *input.Email == "" {
			return nil, domain.ErrMissingFields
		}
		if _, err := s.users.FindByEmail(ctx, *input.Email); err == nil {
			return nil, domain.ErrDuplicateEmail
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		target.Email = *input.Email
	}

	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, domain.ErrInvalidRole
		}
		target.Role = *input.Role
	}

	// The privilege flag itself is staff-gated; role is descriptive only.
	if input.IsStaff != nil && *input.IsStaff != target.IsStaff {
		if !caller.IsStaff {
			return nil, domain.ErrForbidden
		}
		target.IsStaff = *input.IsStaff
	}

	if input.Password != nil {
		if err := s.policy.Validate(*input.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = hash
	}

	target.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, target)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Str("actor_id", caller.ID).Msg("user updated")
	s.audit.Record(domain.AuditEvent{
		ActorID:   caller.ID,
		Username:  caller.Username,
		Action:    domain.AuditUserUpdated,
		TargetID:  updated.ID,
		Timestamp: target.UpdatedAt,
	})

	return updated, nil
}

// Delete permanently removes the target account and denylists its id so its
// refresh tokens can no longer be exchanged. Permitted iff the caller is the
// target or staff.
func (s *UserService) Delete(ctx context.Context, callerID, targetID string) error {
	caller, err := s.resolveCaller(ctx, callerID)
	if err != nil {
		return err
	}
	if !canModify(caller, targetID) {
		return domain.ErrForbidden
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}

	if err := s.revoked.Revoke(ctx, targetID, s.refreshTTL); err != nil {
		// The account is already gone; refresh attempts will still fail on
		// the store lookup. Log and keep the 204.
		s.log.Error().Err(err).Str("user_id", targetID).Msg("failed to denylist deleted account")
	}

	s.log.Info().Str("user_id", targetID).Str("actor_id", caller.ID).Msg("user deleted")
	s.audit.Record(domain.AuditEvent{
		ActorID:   caller.ID,
		Username:  caller.Username,
		Action:    domain.AuditUserDeleted,
		TargetID:  targetID,
		Timestamp: time.Now().UTC(),
	})

	return nil
}
