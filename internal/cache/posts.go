// posts.go caches rendered JSON for the public post endpoints so hot
// reads skip the database. Keys are post slugs; any write to a post
// invalidates its entry.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post responses.
	postKeyPrefix = "post:"

	// DefaultPostTTL is how long a cached post response stays valid.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache stores serialized post responses in Valkey. A nil *PostCache
// is valid and behaves as a cache that always misses, so callers never
// need to branch on whether caching is enabled.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a post response cache backed by the given Valkey
// client. A nil client yields a nil cache, which is safe to use.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// Get retrieves the cached response body for a slug. Returns false on
// miss or any transport error.
func (c *PostCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, postKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("post cache hit", "slug", slug)
	return val, true
}

// Set stores a response body for a slug with the configured TTL.
func (c *PostCache) Set(ctx context.Context, slug string, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, postKeyPrefix+slug, body, c.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes a single post from the cache by its slug.
func (c *PostCache) Invalidate(ctx context.Context, slug string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, postKeyPrefix+slug).Err(); err != nil {
		slog.Warn("post cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("post cache invalidated", "slug", slug)
}

// InvalidateAll removes every cached post by scanning for the prefix.
// Used for writes that can affect many rendered posts at once, like a
// category rename.
func (c *PostCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("post cache fully cleared", "deleted", deleted)
	}
}
