package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appinv "github.com/consite/backend/internal/application/inventory"
	"github.com/consite/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultAvailabilityKeyPrefix = "inventory:availability:"

// RedisAvailabilityCache caches per-item availability snapshots in Redis.
// This is suitable for distributed deployments where multiple instances
// serve availability reads against the same database.
type RedisAvailabilityCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisAvailabilityCache creates a cache backed by a new Redis client
func NewRedisAvailabilityCache(cfg config.RedisConfig) (*RedisAvailabilityCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAvailabilityCache{
		client:    client,
		keyPrefix: defaultAvailabilityKeyPrefix,
		ttl:       cfg.CacheTTL,
	}, nil
}

// NewRedisAvailabilityCacheWithClient creates a cache with an existing Redis
// client. This is useful for testing or when sharing a client across components.
func NewRedisAvailabilityCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisAvailabilityCache {
	if keyPrefix == "" {
		keyPrefix = defaultAvailabilityKeyPrefix
	}
	return &RedisAvailabilityCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached snapshot for an item, or (nil, nil) on a miss
func (c *RedisAvailabilityCache) Get(ctx context.Context, itemID uuid.UUID) (*appinv.ItemAvailabilityResponse, error) {
	payload, err := c.client.Get(ctx, c.key(itemID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read availability snapshot: %w", err)
	}

	var snapshot appinv.ItemAvailabilityResponse
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		// a corrupt entry is treated as a miss; the next Set overwrites it
		return nil, nil
	}
	return &snapshot, nil
}

// Set stores a snapshot with the configured TTL
func (c *RedisAvailabilityCache) Set(ctx context.Context, snapshot *appinv.ItemAvailabilityResponse) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode availability snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(snapshot.ItemID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store availability snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot for an item
func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, itemID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(itemID)).Err(); err != nil {
		return fmt.Errorf("failed to drop availability snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisAvailabilityCache) Close() error {
	return c.client.Close()
}

func (c *RedisAvailabilityCache) key(itemID uuid.UUID) string {
	return c.keyPrefix + itemID.String()
}

// Ensure RedisAvailabilityCache implements AvailabilityCache
var _ appinv.AvailabilityCache = (*RedisAvailabilityCache)(nil)
