package service

import (
	"errors"
	"testing"

	"github.com/compliancehub/identity-service/internal/core/domain"
)

func TestPasswordPolicy(t *testing.T) {
	policy := NewPasswordPolicy(8)

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"too short", "Ab1!", true},
		{"purely numeric", "1234567890", true},
		{"strong enough", "Str0ngPass!", false},
		{"letters only but long", "abcdefghij", false},
		{"exactly at minimum", "a1234567", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Validate(tc.password)
			if tc.wantErr && !errors.Is(err, domain.ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPasswordPolicy_DefaultMinLength(t *testing.T) {
	policy := NewPasswordPolicy(0)
	if policy.MinLength != defaultMinPasswordLength {
		t.Fatalf("expected default %d, got %d", defaultMinPasswordLength, policy.MinLength)
	}
}
