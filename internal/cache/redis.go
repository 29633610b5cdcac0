package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shorty/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// mappingKeyPrefix namespaces mapping entries in Redis.
	mappingKeyPrefix = "short:code:"
	// DefaultTTL bounds how long a cached mapping may serve resolutions.
	// Activation flags change only through external admin action, so a
	// short staleness window is acceptable.
	DefaultTTL = 5 * time.Minute
)

// RedisCache is a read-through cache of mapping rows keyed by short code.
// The click increment always goes to the database; the cache only saves the
// lookup.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(addr, password string, db, poolSize int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: poolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// GetMapping returns the cached mapping for a short code, or nil on a miss.
func (c *RedisCache) GetMapping(ctx context.Context, code string) (*domain.UrlMapping, error) {
	val, err := c.client.Get(ctx, mappingKeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from Redis: %w", err)
	}

	var m domain.UrlMapping
	if err := json.Unmarshal(val, &m); err != nil {
		return nil, fmt.Errorf("failed to decode cached mapping: %w", err)
	}

	return &m, nil
}

// SetMapping caches a mapping row with the configured TTL.
func (c *RedisCache) SetMapping(ctx context.Context, m *domain.UrlMapping) error {
	val, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	if err := c.client.Set(ctx, mappingKeyPrefix+m.ShortCode, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in Redis: %w", err)
	}

	return nil
}

// Delete evicts a cached mapping.
func (c *RedisCache) Delete(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, mappingKeyPrefix+code).Err(); err != nil {
		return fmt.Errorf("failed to delete from Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
