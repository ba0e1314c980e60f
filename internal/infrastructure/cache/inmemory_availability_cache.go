package cache

import (
	"context"
	"sync"
	"time"

	appinv "github.com/consite/backend/internal/application/inventory"
	"github.com/google/uuid"
)

type cachedSnapshot struct {
	snapshot  appinv.ItemAvailabilityResponse
	expiresAt time.Time
}

// InMemoryAvailabilityCache caches availability snapshots in process memory.
// Suitable for single-instance deployments and tests; use the Redis cache
// when multiple instances share a database.
type InMemoryAvailabilityCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]cachedSnapshot
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryAvailabilityCache creates an in-memory cache with the given TTL
func NewInMemoryAvailabilityCache(ttl time.Duration) *InMemoryAvailabilityCache {
	return &InMemoryAvailabilityCache{
		entries: make(map[uuid.UUID]cachedSnapshot),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached snapshot for an item, or (nil, nil) on a miss
func (c *InMemoryAvailabilityCache) Get(_ context.Context, itemID uuid.UUID) (*appinv.ItemAvailabilityResponse, error) {
	c.mu.RLock()
	entry, ok := c.entries[itemID]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, itemID)
		c.mu.Unlock()
		return nil, nil
	}

	snapshot := entry.snapshot
	return &snapshot, nil
}

// Set stores a snapshot with the configured TTL
func (c *InMemoryAvailabilityCache) Set(_ context.Context, snapshot *appinv.ItemAvailabilityResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[snapshot.ItemID] = cachedSnapshot{
		snapshot:  *snapshot,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the snapshot for an item
func (c *InMemoryAvailabilityCache) Invalidate(_ context.Context, itemID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, itemID)
	return nil
}

// Len returns the number of cached entries (for testing/monitoring)
func (c *InMemoryAvailabilityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryAvailabilityCache implements AvailabilityCache
var _ appinv.AvailabilityCache = (*InMemoryAvailabilityCache)(nil)
