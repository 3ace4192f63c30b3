// Package cache is a small read-through cache over repository reads, backed
// by Redis. Staleness is bounded by a TTL; writers invalidate explicit keys
// rather than relying on expiry alone.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis and verifies the connection.
func New(addr, password string, db int, ttl time.Duration) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// GetJSON loads the cached value for key into dest. The second return is
// false on a miss. Redis errors degrade to a miss so the caller falls
// through to the repository.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Warn("cache entry corrupt, dropping", "key", key, "error", err)
		c.rdb.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value under key with the configured TTL. Failures are
// logged and swallowed; the cache is never load-bearing.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// Invalidate removes keys after a write.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

// InvalidatePrefix removes every key under a prefix. Used when a write
// affects an unbounded family of range keys.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("cache scan failed", "prefix", prefix, "error", err)
		return
	}
	c.Invalidate(ctx, keys...)
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Key builders. Invalidation keys are grouped per concern: byDate, byLeader
// and pending-justification reads each have their own prefix.

func KeyRecordsByDate(date time.Time) string {
	return "records:date:" + date.Format("2006-01-02")
}

func KeyRecordsByLeader(leaderID string, start, end time.Time) string {
	return fmt.Sprintf("records:leader:%s:%s:%s", leaderID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func PrefixRecordsByLeader(leaderID string) string {
	return "records:leader:" + leaderID + ":"
}

func KeyPendingJustifications(leaderID string) string {
	return "justifications:pending:" + leaderID
}
