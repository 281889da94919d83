package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sig-0/fxquotes/storage/types"
)

// DefaultKeyPrefix namespaces the cached batches, one key per region
const DefaultKeyPrefix = "fxquotes:quotes:"

// Cache is a Redis backed region cache, shared between service instances.
// Entry expiry is delegated to the key TTL
type Cache struct {
	rdb redis.Cmdable

	prefix string
	ttl    time.Duration
}

// NewCache creates a new Redis cache with the given time-to-live per region
func NewCache(rdb redis.Cmdable, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		rdb:    rdb,
		prefix: DefaultKeyPrefix,
		ttl:    ttl,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache) Get(ctx context.Context, region types.Region) ([]*types.Quote, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(region)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("unable to read cached quotes: %w", err)
	}

	var quotes []*types.Quote

	if err = json.Unmarshal(raw, &quotes); err != nil {
		return nil, false, fmt.Errorf("unable to decode cached quotes: %w", err)
	}

	return quotes, true, nil
}

func (c *Cache) Set(ctx context.Context, region types.Region, quotes []*types.Quote) error {
	raw, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("unable to encode quotes: %w", err)
	}

	if err = c.rdb.Set(ctx, c.key(region), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("unable to cache quotes: %w", err)
	}

	return nil
}

func (c *Cache) key(region types.Region) string {
	return c.prefix + region.String()
}

type Option func(c *Cache)

// WithKeyPrefix overrides the cache key namespace
func WithKeyPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}
