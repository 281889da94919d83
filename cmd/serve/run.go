package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/fxquotes/cache"
	memorycache "github.com/sig-0/fxquotes/cache/memory"
	rediscache "github.com/sig-0/fxquotes/cache/redis"
	"github.com/sig-0/fxquotes/ingest"
	"github.com/sig-0/fxquotes/metrics"
	"github.com/sig-0/fxquotes/provider"
	"github.com/sig-0/fxquotes/quotes"
	"github.com/sig-0/fxquotes/server"
	"github.com/sig-0/fxquotes/server/config"
	"github.com/sig-0/fxquotes/storage"
	"github.com/sig-0/fxquotes/storage/types"
)

// run wires the quote service around the given observation log,
// and serves it until the context is canceled [BLOCKING]
func (c *serveCfg) run(ctx context.Context, store storage.Storage, logger *slog.Logger) error {
	var (
		cfg = c.config

		// The config is validated at this point
		ttl, _      = cfg.CacheTTL()
		timeout, _  = cfg.FetchTimeout()
		interval, _ = cfg.RefreshInterval()
	)

	// Set up the quote cache
	quoteCache, closeCache, err := newCache(ctx, cfg.Cache, ttl)
	if err != nil {
		return err
	}

	defer closeCache()

	logger.Info(
		"quote cache ready",
		"backend", cfg.Cache.Backend,
		"ttl", ttl.String(),
	)

	// Set up the metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := metrics.New(reg)

	// Create the quote aggregator
	aggregator := quotes.New(
		provider.NewPageFetcher(timeout),
		store,
		quoteCache,
		cfg.Sources.ByRegion(),
		quotes.WithLogger(logger),
		quotes.WithMetrics(m),
		quotes.WithMaxConcurrency(cfg.Fetch.MaxConcurrency),
	)

	// Create the server instance
	s, err := server.New(
		aggregator,
		server.WithLogger(logger),
		server.WithConfig(cfg),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	s.Routes(func(router chi.Router) {
		router.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	})

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the background refresher, if enabled
	if interval > 0 {
		orchestrator := ingest.New(ingest.WithLogger(logger))

		for _, job := range refreshJobs(aggregator, interval) {
			if err = orchestrator.Register(job); err != nil {
				return fmt.Errorf("unable to register refresh job: %w", err)
			}
		}

		group.Go(func() error {
			return orchestrator.Start(gCtx)
		})
	}

	return group.Wait()
}

// refreshJobs returns a background refresh job for every region
func refreshJobs(r ingest.Refresher, interval time.Duration) []ingest.Job {
	jobs := make([]ingest.Job, 0, len(types.Regions))

	for _, region := range types.Regions {
		jobs = append(jobs, ingest.NewRegionJob(r, region, interval))
	}

	return jobs
}

// newCache creates the configured quote cache backend
func newCache(
	ctx context.Context,
	cfg *config.Cache,
	ttl time.Duration,
) (cache.Cache, func(), error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		rdb := goredis.NewClient(&goredis.Options{
			Addr: cfg.RedisAddress,
			DB:   cfg.RedisDB,
		})

		pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
		defer cancelPing()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()

			return nil, nil, fmt.Errorf("unable to reach redis (ping): %w", err)
		}

		closeFn := func() {
			_ = rdb.Close()
		}

		return rediscache.NewCache(rdb, ttl), closeFn, nil
	default:
		return memorycache.NewCache(ttl), func() {}, nil
	}
}
