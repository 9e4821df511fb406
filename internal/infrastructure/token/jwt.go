package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/compliancehub/identity-service/internal/core/domain"
	"github.com/compliancehub/identity-service/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// JWTIssuer signs and verifies HS256 tokens. The role and staff claims are
// convenience hints; verification never treats them as authoritative.
type JWTIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL, refreshTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &JWTIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair returns a fresh access/refresh token pair for user.
func (i *JWTIssuer) IssuePair(user *domain.User) (*ports.TokenPair, error) {
	access, err := i.sign(user, ports.TokenKindAccess, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := i.sign(user, ports.TokenKindRefresh, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueAccess returns a fresh access token for user.
func (i *JWTIssuer) IssueAccess(user *domain.User) (string, error) {
	return i.sign(user, ports.TokenKindAccess, i.accessTTL)
}

// Verify parses the token, enforces HS256 and expiry, and checks the typ
// claim against kind. Every failure maps to domain.ErrInvalidToken.
func (i *JWTIssuer) Verify(token, kind string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	typ, _ := claims["typ"].(string)
	if sub == "" || typ != kind {
		return nil, domain.ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	staff, _ := claims["staff"].(bool)

	return &ports.TokenClaims{
		UserID:  sub,
		Role:    role,
		IsStaff: staff,
		Kind:    typ,
	}, nil
}

func (i *JWTIssuer) sign(user *domain.User, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"typ":   kind,
		"role":  user.Role,
		"staff": user.IsStaff,
		"jti":   randomID(),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// randomID returns a unique token id for the jti claim.
func randomID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
