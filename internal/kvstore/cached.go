package kvstore

import (
	"context"

	"github.com/bitmark-inc/logger"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-geocache/cache"
)

// Interface assertion to ensure Cached implements Medium
var _ Medium = (*Cached)(nil)

const cachedKeyPrefix = "blob::"

// lookup wraps the tuple result of Get for caching. Absence is cached too.
type lookup struct {
	Value   string
	Present bool
}

// Cached decorates a Medium with read-through caching. Writes go to the
// base medium first and drop the cached entry only when they succeed.
type Cached struct {
	base        Medium
	cache       cache.CacheService
	keyRegistry *xsync.MapOf[string, struct{}]
	log         *logger.L
}

// NewCached wraps base with cacheService.
func NewCached(base Medium, cacheService cache.CacheService, opts ...Option) *Cached {
	return &Cached{
		base:        base,
		cache:       cacheService,
		keyRegistry: xsync.NewMapOf[string, struct{}](),
		log:         buildOptions(opts).log,
	}
}

func (c *Cached) Get(ctx context.Context, key string) (string, bool, error) {
	cacheKey := cachedKeyPrefix + key
	c.keyRegistry.Store(cacheKey, struct{}{})

	res, err := cache.GetOrFetch(ctx, c.cache, cacheKey, func(ctx context.Context) (lookup, error) {
		value, ok, err := c.base.Get(ctx, key)
		return lookup{Value: value, Present: ok}, err
	})
	if err != nil {
		return "", false, err
	}
	return res.Value, res.Present, nil
}

func (c *Cached) Set(ctx context.Context, key, value string) error {
	err := c.base.Set(ctx, key, value)
	if err == nil {
		c.invalidate(ctx, cachedKeyPrefix+key)
	}
	return err
}

func (c *Cached) Delete(ctx context.Context, key string) error {
	err := c.base.Delete(ctx, key)
	if err == nil {
		c.invalidate(ctx, cachedKeyPrefix+key)
	}
	return err
}

// Close drops every cached blob and closes the base medium.
func (c *Cached) Close() error {
	c.keyRegistry.Range(func(key string, _ struct{}) bool {
		c.invalidate(context.Background(), key)
		return true
	})
	return c.base.Close()
}

func (c *Cached) invalidate(ctx context.Context, key string) {
	if err := c.cache.Delete(ctx, key); err != nil && c.log != nil {
		c.log.Warnf("drop cached %s: %s", key, err)
	}
	c.keyRegistry.Delete(key)
}
