package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey is where the serialized merged dataset is cached for API
// reads.
const SnapshotKey = "hokhub:snapshot"

// SnapshotTTL bounds staleness if invalidation is ever missed.
const SnapshotTTL = 6 * time.Hour

// RedisCache handles caching and fast state storage
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// GetSnapshot returns the cached merged dataset, empty when absent.
func (rc *RedisCache) GetSnapshot(ctx context.Context) (string, error) {
	val, err := rc.client.Get(ctx, SnapshotKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// SetSnapshot caches the merged dataset.
func (rc *RedisCache) SetSnapshot(ctx context.Context, doc string) error {
	return rc.client.Set(ctx, SnapshotKey, doc, SnapshotTTL).Err()
}

// InvalidateSnapshot drops the cached dataset after a merge or
// reconcile run.
func (rc *RedisCache) InvalidateSnapshot(ctx context.Context) error {
	return rc.client.Del(ctx, SnapshotKey).Err()
}
