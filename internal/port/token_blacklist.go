package port

import (
	"context"
	"time"
)

// TokenBlacklist records logged-out tokens until their natural expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
