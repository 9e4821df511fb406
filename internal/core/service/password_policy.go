package service

import (
	"unicode"

	"github.com/compliancehub/identity-service/internal/core/domain"
)

const defaultMinPasswordLength = 8

// PasswordPolicy is the minimum-strength rule applied at registration and
// password change: at least MinLength characters and not purely numeric.
type PasswordPolicy struct {
	MinLength int
}

func NewPasswordPolicy(minLength int) PasswordPolicy {
	if minLength <= 0 {
		minLength = defaultMinPasswordLength
	}
	return PasswordPolicy{MinLength: minLength}
}

// Validate returns domain.ErrWeakPassword when password fails the policy.
func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return domain.ErrWeakPassword
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return domain.ErrWeakPassword
	}
	return nil
}
