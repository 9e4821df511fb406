package ports

import (
	"context"
	"time"
)

// RevocationList denylists account ids so their refresh tokens can no longer
// be exchanged. Entries expire on their own once every token issued before
// revocation would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, accountID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, accountID string) (bool, error)
}
