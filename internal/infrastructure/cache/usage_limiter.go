package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisUsageLimiter enforces per-organization resource limits with Redis
// counters. A limit of zero means the resource type is unlimited.
type RedisUsageLimiter struct {
	client    *redis.Client
	keyPrefix string
	limits    map[string]int64
}

// NewRedisUsageLimiter creates a usage limiter backed by an existing Redis client
func NewRedisUsageLimiter(client *redis.Client, limits map[string]int64) *RedisUsageLimiter {
	return &RedisUsageLimiter{
		client:    client,
		keyPrefix: "usage:",
		limits:    limits,
	}
}

func (l *RedisUsageLimiter) key(orgID uuid.UUID, resourceType string) string {
	return fmt.Sprintf("%s%s:%s", l.keyPrefix, orgID.String(), resourceType)
}

// CheckAndRecord increments the organization's counter for the resource type
// and rejects the increment when it would exceed the configured limit.
func (l *RedisUsageLimiter) CheckAndRecord(ctx context.Context, orgID uuid.UUID, resourceType string) error {
	limit, ok := l.limits[resourceType]
	if !ok || limit <= 0 {
		return nil
	}

	count, err := l.client.Incr(ctx, l.key(orgID, resourceType)).Result()
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	if count > limit {
		l.client.Decr(ctx, l.key(orgID, resourceType))
		return shared.ErrQuotaExceeded
	}
	return nil
}

// ReleaseUsage gives back one unit of recorded usage
func (l *RedisUsageLimiter) ReleaseUsage(ctx context.Context, orgID uuid.UUID, resourceType string) error {
	limit, ok := l.limits[resourceType]
	if !ok || limit <= 0 {
		return nil
	}

	count, err := l.client.Decr(ctx, l.key(orgID, resourceType)).Result()
	if err != nil {
		return fmt.Errorf("failed to release usage: %w", err)
	}
	if count < 0 {
		l.client.Set(ctx, l.key(orgID, resourceType), 0, 0)
	}
	return nil
}

// InMemoryUsageLimiter enforces per-organization resource limits in process
// memory. Suitable for single-instance deployments and tests.
type InMemoryUsageLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	limits map[string]int64
}

// NewInMemoryUsageLimiter creates an in-memory usage limiter
func NewInMemoryUsageLimiter(limits map[string]int64) *InMemoryUsageLimiter {
	return &InMemoryUsageLimiter{
		counts: make(map[string]int64),
		limits: limits,
	}
}

// CheckAndRecord increments the counter, rejecting when it would exceed the limit
func (l *InMemoryUsageLimiter) CheckAndRecord(_ context.Context, orgID uuid.UUID, resourceType string) error {
	limit, ok := l.limits[resourceType]
	if !ok || limit <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := orgID.String() + ":" + resourceType
	if l.counts[key]+1 > limit {
		return shared.ErrQuotaExceeded
	}
	l.counts[key]++
	return nil
}

// ReleaseUsage gives back one unit of recorded usage
func (l *InMemoryUsageLimiter) ReleaseUsage(_ context.Context, orgID uuid.UUID, resourceType string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := orgID.String() + ":" + resourceType
	if l.counts[key] > 0 {
		l.counts[key]--
	}
	return nil
}
