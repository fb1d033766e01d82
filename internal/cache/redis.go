package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache backs the per-room creation lock. The lock carries a short TTL
// so a crashed request never leaves a room stuck.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) AcquireRoomLock(ctx context.Context, roomID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, roomLockKey(roomID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseRoomLock(ctx context.Context, roomID int64) error {
	return c.client.Del(ctx, roomLockKey(roomID)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func roomLockKey(roomID int64) string {
	return fmt.Sprintf("lock:room:%d", roomID)
}
