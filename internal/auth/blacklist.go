package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist stores revoked token ids until their expiry.
type Blacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const blacklistPrefix = "token:revoked:"

type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return b.client.Set(ctx, blacklistPrefix+tokenID, 1, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NopBlacklist never revokes; used when Redis is not configured.
type NopBlacklist struct{}

func (NopBlacklist) Revoke(context.Context, string, time.Duration) error { return nil }

func (NopBlacklist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
