package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Revoker remembers token ids that were logged out until they expire on
// their own.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevoker keeps revoked ids in process. Good for a single instance.
type MemoryRevoker struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewMemoryRevoker(cleanupInterval time.Duration) *MemoryRevoker {
	return &MemoryRevoker{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
		now:   time.Now,
	}
}

func (r *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, found := r.cache.Get(tokenID)
	return found, nil
}

// RedisRevoker shares revocations across instances.
type RedisRevoker struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{
		client: client,
		prefix: "hospital:revoked:",
		now:    time.Now,
	}
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}
