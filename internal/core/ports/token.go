package ports

import "github.com/compliancehub/identity-service/internal/core/domain"

// Token kinds embedded in the typ claim.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// TokenPair is the session artifact returned by login.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenClaims is the verified claim set of a presented token. Role and
// IsStaff are cache hints; authorization-sensitive operations re-check the
// stored record.
type TokenClaims struct {
	UserID  string
	Role    string
	IsStaff bool
	Kind    string
}

// TokenIssuer signs and verifies the service's bearer tokens.
type TokenIssuer interface {
	IssuePair(user *domain.User) (*TokenPair, error)
	IssueAccess(user *domain.User) (string, error)
	// Verify checks signature and expiry and that the typ claim matches kind.
	// Any failure is reported as domain.ErrInvalidToken.
	Verify(token, kind string) (*TokenClaims, error)
}
