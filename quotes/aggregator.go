package quotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sig-0/fxquotes/cache"
	"github.com/sig-0/fxquotes/extract"
	"github.com/sig-0/fxquotes/metrics"
	"github.com/sig-0/fxquotes/provider"
	"github.com/sig-0/fxquotes/storage"
	"github.com/sig-0/fxquotes/storage/types"
)

// DefaultMaxConcurrency is the default number of sources fetched at once per batch
const DefaultMaxConcurrency = 8

// saveTimeout bounds a single observation write
const saveTimeout = 10 * time.Second

var (
	ErrUnknownRegion = errors.New("no sources configured for region")
	ErrPersist       = errors.New("unable to persist quotes")
)

// Aggregator produces region quote batches, serving them from the cache when fresh
type Aggregator struct {
	fetcher provider.Fetcher
	storage storage.Storage
	cache   cache.Cache

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	sources map[types.Region][]types.Source
	group   singleflight.Group

	maxConcurrency int
}

// New creates a new quote aggregator
func New(
	fetcher provider.Fetcher,
	storage storage.Storage,
	cache cache.Cache,
	sources map[types.Region][]types.Source,
	opts ...Option,
) *Aggregator {
	a := &Aggregator{
		fetcher:        fetcher,
		storage:        storage,
		cache:          cache,
		sources:        sources,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:            time.Now,
		maxConcurrency: DefaultMaxConcurrency,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Sources returns the configured sources of the region, in order
func (a *Aggregator) Sources(region types.Region) []types.Source {
	return a.sources[region]
}

// GetQuotes returns the region's quotes, one per configured source, in source order.
// A fresh cached batch is returned as-is, otherwise a new batch is fetched
func (a *Aggregator) GetQuotes(ctx context.Context, region types.Region) ([]*types.Quote, error) {
	if _, ok := a.sources[region]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}

	cached, found, err := a.cache.Get(ctx, region)

	switch {
	case err != nil:
		a.metrics.CacheLookup(region, metrics.CacheError)
		a.logger.Warn(
			"unable to read quote cache",
			"region", region.String(),
			"err", err,
		)
	case found:
		a.metrics.CacheLookup(region, metrics.CacheHit)

		return cached, nil
	default:
		a.metrics.CacheLookup(region, metrics.CacheMiss)
	}

	return a.collect(ctx, region)
}

// Refresh fetches a new batch for the region, bypassing the cache read.
// The fresh batch replaces the cached one
func (a *Aggregator) Refresh(ctx context.Context, region types.Region) ([]*types.Quote, error) {
	if _, ok := a.sources[region]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}

	return a.collect(ctx, region)
}

// collect runs a single batch per region at a time.
// Concurrent callers for the same region share the result
func (a *Aggregator) collect(ctx context.Context, region types.Region) ([]*types.Quote, error) {
	// The batch outlives any single caller, it is shared
	batchCtx := context.WithoutCancel(ctx)

	ch := a.group.DoChan(region.String(), func() (any, error) {
		return a.runBatch(batchCtx, region)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		quotes, _ := res.Val.([]*types.Quote)

		return quotes, nil
	}
}

// runBatch fetches, extracts, persists and caches a full region batch
func (a *Aggregator) runBatch(ctx context.Context, region types.Region) ([]*types.Quote, error) {
	start := time.Now()
	defer func() {
		a.metrics.BatchCompleted(region, time.Since(start))
	}()

	sources := a.sources[region]
	quotes := make([]*types.Quote, len(sources))

	var g errgroup.Group
	g.SetLimit(a.maxConcurrency)

	for i, source := range sources {
		g.Go(func() error {
			quotes[i] = a.fetchQuote(ctx, region, source)

			// Failures are absorbed into absent prices
			return nil
		})
	}

	_ = g.Wait()

	if err := a.persist(ctx, quotes); err != nil {
		return nil, err
	}

	if err := a.cache.Set(ctx, region, quotes); err != nil {
		a.logger.Warn(
			"unable to store quote cache",
			"region", region.String(),
			"err", err,
		)
	}

	a.logger.Debug(
		"collected quote batch",
		"region", region.String(),
		"sources", len(quotes),
		"took", time.Since(start).String(),
	)

	return quotes, nil
}

// fetchQuote fetches a single source page and extracts its prices.
// A failed fetch yields an all-absent quote
func (a *Aggregator) fetchQuote(
	ctx context.Context,
	region types.Region,
	source types.Source,
) *types.Quote {
	quote := &types.Quote{
		Source: source,
		Region: region,
	}

	markup, err := a.fetcher.Fetch(ctx, source)
	a.metrics.PageFetched(region, err)

	quote.RetrievedAt = a.now().UTC()

	if err != nil {
		a.logger.Warn(
			"unable to fetch source page",
			"source", source.String(),
			"region", region.String(),
			"err", err,
		)

		a.metrics.SidesExtracted(region, "", "")

		return quote
	}

	pair, trace := extract.Explain(markup)
	a.metrics.SidesExtracted(region, trace.Buy, trace.Sell)

	quote.BuyPrice = pair.Buy
	quote.SellPrice = pair.Sell

	return quote
}

// persist appends every quote of the batch to the observation log.
// The first failed write stops the batch, the rest is not written
func (a *Aggregator) persist(ctx context.Context, quotes []*types.Quote) error {
	for _, quote := range quotes {
		saveCtx, cancelFn := context.WithTimeout(ctx, saveTimeout)
		err := a.storage.SaveQuote(saveCtx, quote)
		cancelFn()

		if err == nil {
			continue
		}

		a.metrics.PersistFailed(quote.Region)
		a.logger.Error(
			"unable to save quote",
			"source", quote.Source.String(),
			"region", quote.Region.String(),
			"err", err,
		)

		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}
