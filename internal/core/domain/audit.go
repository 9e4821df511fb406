package domain

import "time"

// AuditAction identifies a security-relevant event on an account.
type AuditAction string

const (
	AuditRegistered     AuditAction = "user_registered"
	AuditLoginSucceeded AuditAction = "login_succeeded"
	AuditLoginFailed    AuditAction = "login_failed"
	AuditTokenRefreshed AuditAction = "token_refreshed"
	AuditUserUpdated    AuditAction = "user_updated"
	AuditUserDeleted    AuditAction = "user_deleted"
)

// AuditEvent records one security event. ActorID is the account that caused
// the event; TargetID is set when the event concerns another account.
type AuditEvent struct {
	ActorID   string
	Username  string
	Action    AuditAction
	TargetID  string
	Timestamp time.Time
}
