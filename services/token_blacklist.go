package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist invalidates issued JWTs on logout. Entries expire together
// with the token they shadow, so the set stays small.
type TokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// Blacklist records a token as invalid until its natural expiry.
func (tb *TokenBlacklist) Blacklist(token string, expiresAt time.Time) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to shadow
	}

	ctx := context.Background()
	if err := tb.client.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether the token was invalidated. Lookup failures
// deny access rather than letting a revoked token through.
func (tb *TokenBlacklist) IsBlacklisted(token string) bool {
	ctx := context.Background()
	_, err := tb.client.Get(ctx, blacklistKey(token)).Result()
	if err == redis.Nil {
		return false
	}
	return true
}
