// Package rediscache is a read-through Redis cache in front of a content source.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"practicalprague/internal/domain"
	"practicalprague/internal/service"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 60 * time.Second

type Option func(*PostsCache)

func WithPrefix(prefix string) Option {
	return func(c *PostsCache) { c.prefix = strings.Trim(prefix, ":") }
}

func WithTTL(d time.Duration) Option {
	return func(c *PostsCache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *PostsCache) {
		if l != nil {
			c.log = l
		}
	}
}

// PostsCache caches published content only. Admin reads and drafts always go
// to the upstream source so previews show the latest edit.
type PostsCache struct {
	rdb      *redis.Client
	upstream service.PostsStore
	prefix   string
	ttl      time.Duration
	log      *slog.Logger
}

var _ service.PostsStore = (*PostsCache)(nil)

func New(rdb *redis.Client, upstream service.PostsStore, opts ...Option) *PostsCache {
	c := &PostsCache{
		rdb:      rdb,
		upstream: upstream,
		prefix:   "content",
		ttl:      DefaultTTL,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PostsCache) key(parts ...string) string {
	return c.prefix + ":" + strings.Join(parts, ":")
}

// through serves key from Redis or loads it from upstream. Redis failures are
// logged and never fail the read.
func through[T any](ctx context.Context, c *PostsCache, key string, load func() (T, error)) (T, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		if jerr := json.Unmarshal(raw, &v); jerr == nil {
			return v, nil
		}
		c.log.Warn("content cache entry unreadable", "key", key)
	case !errors.Is(err, redis.Nil):
		c.log.Warn("content cache get failed", "key", key, "err", err)
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn("content cache set failed", "key", key, "err", err)
	}
	return v, nil
}

func (c *PostsCache) FeaturedPosts(ctx context.Context) ([]domain.PostSummary, error) {
	return through(ctx, c, c.key("featured"), func() ([]domain.PostSummary, error) {
		return c.upstream.FeaturedPosts(ctx)
	})
}

func (c *PostsCache) LatestPosts(ctx context.Context, limit int) ([]domain.PostSummary, error) {
	return through(ctx, c, c.key("latest", strconv.Itoa(limit)), func() ([]domain.PostSummary, error) {
		return c.upstream.LatestPosts(ctx, limit)
	})
}

func (c *PostsCache) PostsByCategory(ctx context.Context, categorySlug string) ([]domain.PostSummary, error) {
	return through(ctx, c, c.key("category", categorySlug), func() ([]domain.PostSummary, error) {
		return c.upstream.PostsByCategory(ctx, categorySlug)
	})
}

func (c *PostsCache) AllPosts(ctx context.Context) ([]domain.PostSummary, error) {
	return through(ctx, c, c.key("all"), func() ([]domain.PostSummary, error) {
		return c.upstream.AllPosts(ctx)
	})
}

// PostBySlug does not cache misses, so a newly published post shows up on
// the next request.
func (c *PostsCache) PostBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return through(ctx, c, c.key("post", slug), func() (domain.Post, error) {
		return c.upstream.PostBySlug(ctx, slug)
	})
}

func (c *PostsCache) RelatedPosts(ctx context.Context, postID string, categoryIDs []string, limit int) ([]domain.PostSummary, error) {
	k := c.key("related", postID, strconv.Itoa(limit), strings.Join(categoryIDs, ","))
	return through(ctx, c, k, func() ([]domain.PostSummary, error) {
		return c.upstream.RelatedPosts(ctx, postID, categoryIDs, limit)
	})
}

func (c *PostsCache) PostBySlugAdmin(ctx context.Context, slug string) (domain.Post, error) {
	return c.upstream.PostBySlugAdmin(ctx, slug)
}

func (c *PostsCache) DraftPosts(ctx context.Context) ([]domain.PostSummary, error) {
	return c.upstream.DraftPosts(ctx)
}
