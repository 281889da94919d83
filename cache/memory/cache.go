package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sig-0/fxquotes/storage/types"
)

type entry struct {
	storedAt time.Time
	quotes   []*types.Quote
}

// Cache is an in-process region cache
type Cache struct {
	now     func() time.Time
	entries map[types.Region]entry

	ttl time.Duration
	mu  sync.RWMutex
}

// NewCache creates a new in-memory cache with the given time-to-live per region
func NewCache(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		now:     time.Now,
		entries: make(map[types.Region]entry),
		ttl:     ttl,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache) Get(_ context.Context, region types.Region) ([]*types.Quote, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[region]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false, nil
	}

	return e.quotes, true, nil
}

func (c *Cache) Set(_ context.Context, region types.Region, quotes []*types.Quote) error {
	c.mu.Lock()
	c.entries[region] = entry{
		storedAt: c.now(),
		quotes:   quotes,
	}
	c.mu.Unlock()

	return nil
}

type Option func(c *Cache)

// WithClock overrides the cache time source
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}
