package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRevoke_RoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	client.Del(ctx, revokedKeyPrefix+"test-token")

	revoked, err := adapter.IsRevoked(ctx, "test-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked {
		t.Error("token should not be revoked yet")
	}

	if err := adapter.Revoke(ctx, "test-token", time.Minute); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	revoked, err = adapter.IsRevoked(ctx, "test-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Error("expected token to be revoked")
	}

	ttl, _ := client.TTL(ctx, revokedKeyPrefix+"test-token").Result()
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected TTL within a minute, got %s", ttl)
	}

	client.Del(ctx, revokedKeyPrefix+"test-token")
}

func TestRevoke_ExpiredTokenIsNoop(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	if err := adapter.Revoke(ctx, "stale-token", -time.Minute); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	revoked, err := adapter.IsRevoked(ctx, "stale-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revoked {
		t.Error("expired token needs no blacklist entry")
	}
}
