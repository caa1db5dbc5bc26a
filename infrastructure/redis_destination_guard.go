package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDestinationGuard shares the destination quiet window across instances
type RedisDestinationGuard struct {
	client *redis.Client
	window time.Duration
	prefix string
}

// NewRedisDestinationGuard creates a guard keyed under prefix. A
// non-positive window disables the guard.
func NewRedisDestinationGuard(client *redis.Client, window time.Duration, prefix string) *RedisDestinationGuard {
	return &RedisDestinationGuard{
		client: client,
		window: window,
		prefix: prefix,
	}
}

// TryAcquire sets the destination key if absent, expiring after the window
func (g *RedisDestinationGuard) TryAcquire(ctx context.Context, destinationID int64) (bool, error) {
	if g.window <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("%s:destination:%d", g.prefix, destinationID)
	acquired, err := g.client.SetNX(ctx, key, time.Now().Unix(), g.window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire destination guard %d: %w", destinationID, err)
	}
	return acquired, nil
}
