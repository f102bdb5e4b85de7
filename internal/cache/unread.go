// Package cache provides a Redis cache for per-user unread totals, sitting
// in front of the authoritative counters on the match rows.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Unread caches per-user unread message totals in Redis.
type Unread struct {
	cli *redis.Client
}

// Connect connects to the Redis server and pings it to ensure the
// connection is working.
func Connect(ctx context.Context, addr string) (*Unread, error) {
	cli := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Unread{cli: cli}, nil
}

const (
	totalPrefix = "unread_total"
	totalTTL    = time.Hour
)

func totalKey(userID string) string {
	return fmt.Sprintf("%s:%s", totalPrefix, userID)
}

// GetTotal returns the cached unread total for a user. The second return
// value reports whether the key was present.
func (c *Unread) GetTotal(ctx context.Context, userID string) (int, bool, error) {
	n, err := c.cli.Get(ctx, totalKey(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get unread total: %w", err)
	}
	return n, true, nil
}

// SetTotal stores the unread total for a user
func (c *Unread) SetTotal(ctx context.Context, userID string, total int) error {
	if err := c.cli.Set(ctx, totalKey(userID), total, totalTTL).Err(); err != nil {
		return fmt.Errorf("set unread total: %w", err)
	}
	return nil
}

// Invalidate drops the cached total for a user. Called on every counter
// mutation; the next read repopulates from storage.
func (c *Unread) Invalidate(ctx context.Context, userID string) error {
	if err := c.cli.Del(ctx, totalKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate unread total: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (c *Unread) Close() error {
	return c.cli.Close()
}
