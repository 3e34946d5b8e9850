// Package cache provides a Redis-backed tile cache: a second
// implementation of tileproc.TileCache for deployments that run more than
// one API replica and need rendered-tile cache hits shared across them,
// rather than siloed per process like the in-memory tileproc.Cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is used when New is not given one, matching the in-memory
// tileproc.Cache's freshness window for rendered tiles.
const DefaultTTL = 5 * time.Minute

// tileEntry is the JSON envelope stored per tile key: the rendered PNG
// bytes plus the scene ID that produced them, so Get can return both
// without a second round trip.
type tileEntry struct {
	PNG     []byte `json:"png"`
	SceneID string `json:"scene_id"`
}

// Cache is a Redis-backed cache of rendered XYZ tiles, keyed by
// tileproc.Request.Key().
type Cache struct {
	client   *redis.Client
	redisURL string // for logging purposes
	ttl      time.Duration
}

// New creates a Redis-backed tile cache, reading REDIS_URL when redisURL
// is empty (falling back to redis://localhost:6379), and verifies the
// connection with a Ping before returning.
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	if redisURL == "" {
		redisURL = os.Getenv("REDIS_URL")
	}
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	isUpstash := strings.Contains(redisURL, "upstash.io")
	provider := "Redis"
	if isUpstash {
		provider = "Upstash Redis"
	}
	slog.Info("tile cache connection established",
		"provider", provider,
		"host", opt.Addr,
	)

	return &Cache{client: client, redisURL: redisURL, ttl: ttl}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client returns the underlying Redis client for direct access.
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Get returns the cached tile PNG and its source scene ID, or ok=false on
// a miss. A transport error is logged and treated as a miss: a tile cache
// is an optimization, so a Redis outage should degrade to re-rendering
// rather than fail the request.
func (c *Cache) Get(ctx context.Context, key string) (png []byte, sceneID string, ok bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		slog.Debug("tile cache miss", "key", key)
		return nil, "", false
	}
	if err != nil {
		slog.Error("tile cache get error", "key", key, "error", err)
		return nil, "", false
	}

	var entry tileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.Error("tile cache decode error", "key", key, "error", err)
		return nil, "", false
	}

	slog.Debug("tile cache hit", "key", key)
	return entry.PNG, entry.SceneID, true
}

// Put stores png/sceneID under key with the cache's configured TTL.
func (c *Cache) Put(ctx context.Context, key string, png []byte, sceneID string) {
	data, err := json.Marshal(tileEntry{PNG: png, SceneID: sceneID})
	if err != nil {
		slog.Error("tile cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Error("tile cache set error", "key", key, "error", err)
		return
	}
	slog.Debug("tile cache set", "key", key, "ttl", c.ttl, "size_bytes", len(data))
}

// Flush removes every cached tile, used after a catalog refresh makes
// previously rendered tiles potentially stale ahead of their TTL.
func (c *Cache) Flush(ctx context.Context) error {
	return c.deleteByPattern(ctx, "*")
}

// deleteByPattern deletes all keys matching a pattern.
func (c *Cache) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			result, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += result
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	if deleted > 0 {
		slog.Debug("tile cache keys deleted", "count", deleted, "pattern", pattern)
	}
	return nil
}

// Stats returns cache statistics for an operational dashboard or health
// endpoint.
func (c *Cache) Stats(ctx context.Context) (map[string]interface{}, error) {
	info, err := c.client.Info(ctx, "stats", "memory", "keyspace").Result()
	if err != nil {
		return nil, err
	}

	count, err := c.countKeys(ctx, "*")
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"redis_info":   info,
		"tile_entries": count,
	}, nil
}

func (c *Cache) countKeys(ctx context.Context, pattern string) (int64, error) {
	var count int64
	var cursor uint64

	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return 0, err
		}
		count += int64(len(keys))
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return count, nil
}

// Adapter satisfies tileproc.TileCache's context-free Get/Put surface
// over a background context, so a Cache can be handed to
// tileproc.NewProcessor in place of the in-memory cache.
type Adapter struct {
	Cache *Cache
}

// Get implements tileproc.TileCache.
func (a Adapter) Get(key string) (png []byte, sceneID string, ok bool) {
	return a.Cache.Get(context.Background(), key)
}

// Put implements tileproc.TileCache.
func (a Adapter) Put(key string, png []byte, sceneID string) {
	a.Cache.Put(context.Background(), key, png, sceneID)
}
