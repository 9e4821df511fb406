package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleEngineer = "engineer"
	RoleManager  = "manager"
	RoleAuditor  = "auditor"

	// DefaultRole is assigned when registration omits the role field.
	DefaultRole = RoleEngineer
)

// ValidRole reports whether r belongs to the fixed role enumeration.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleEngineer, RoleManager, RoleAuditor:
		return true
	}
	return false
}

// User models a stored principal. Role is descriptive only; IsStaff is the
// single privilege capability consulted by authorization checks.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
