package sector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// GeneratedCache holds freshly generated sectors until they are saved or
// their TTL runs out.
type GeneratedCache interface {
	Put(ctx context.Context, s Sector) error
	Get(ctx context.Context, id string) (*Sector, error)
	Delete(ctx context.Context, id string) error
}

const cacheKeyPrefix = "sectors:generated:"

// cachedSector carries the owner token next to the sector, since the token
// is left out of the sector's own JSON.
type cachedSector struct {
	Sector Sector `json:"sector"`
	Owner  string `json:"owner,omitempty"`
}

func encodeCached(s Sector) ([]byte, error) {
	data, err := json.Marshal(cachedSector{Sector: s, Owner: s.OwnerToken})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sector: %w", err)
	}
	return data, nil
}

func decodeCached(data []byte) (*Sector, error) {
	var entry cachedSector
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cached sector: %w", err)
	}
	entry.Sector.OwnerToken = entry.Owner
	return &entry.Sector, nil
}

// RedisCache stores generated sectors as JSON strings with an expiry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	logger.Debug("Initializing redis sector cache", "ttl", ttl)

	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisCache) Put(ctx context.Context, s Sector) error {
	data, err := encodeCached(s)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+s.ID, data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to cache sector", "component", "sector_cache", "sector_id", s.ID, "error", err)
		return fmt.Errorf("failed to cache sector: %w", err)
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, id string) (*Sector, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		c.logger.Error("Failed to read cached sector", "component", "sector_cache", "sector_id", id, "error", err)
		return nil, fmt.Errorf("failed to read cached sector: %w", err)
	}
	return decodeCached(data)
}

func (c *RedisCache) Delete(ctx context.Context, id string) error {
	removed, err := c.client.Del(ctx, cacheKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete cached sector: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is the GeneratedCache used when Redis is disabled. Entries
// are stored encoded so callers never share maps with the cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Put(_ context.Context, s Sector) error {
	data, err := encodeCached(s)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evictLocked(now)
	c.entries[s.ID] = memoryEntry{data: data, expiresAt: now.Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, id string) (*Sector, error) {
	c.mu.Lock()
	entry, ok := c.entries[id]
	if ok && !c.now().Before(entry.expiresAt) {
		delete(c.entries, id)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	return decodeCached(entry.data)
}

func (c *MemoryCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	delete(c.entries, id)
	if !ok || !c.now().Before(entry.expiresAt) {
		return ErrNotFound
	}
	return nil
}

func (c *MemoryCache) evictLocked(now time.Time) {
	for id, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}
