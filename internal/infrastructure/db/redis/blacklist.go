package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist stores revoked refresh token IDs in Redis. Keys carry
// a TTL matching the token's remaining lifetime, so revocations expire
// together with the tokens they invalidate.
// Key format: blacklist:<jti>
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist creates a TokenBlacklist wrapping the given client.
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Add records the token ID as revoked for ttl.
func (b *TokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	return b.client.Set(ctx, b.key(jti), "1", ttl).Err()
}

// Contains reports whether the token ID has been revoked.
func (b *TokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist check: %w", err)
	}
	return n > 0, nil
}

func (b *TokenBlacklist) key(jti string) string {
	return "blacklist:" + jti
}
