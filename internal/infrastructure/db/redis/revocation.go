package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList denylists deleted accounts so their refresh tokens can no
// longer be exchanged. Key format: revoked:account:<account_id>
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke records the account id with a TTL covering the lifetime of any
// refresh token issued before revocation.
func (l *RevocationList) Revoke(ctx context.Context, accountID string, ttl time.Duration) error {
	return l.client.Set(ctx, l.key(accountID), "1", ttl).Err()
}

// IsRevoked reports whether the account id is on the denylist.
func (l *RevocationList) IsRevoked(ctx context.Context, accountID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(accountID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (l *RevocationList) key(accountID string) string {
	return fmt.Sprintf("revoked:account:%s", accountID)
}
