package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/sig-0/fxquotes/provider"
	"github.com/sig-0/fxquotes/storage/types"
)

const (
	DefaultListenAddress = "0.0.0.0:3000"

	DefaultCacheTTL     = "60s"
	DefaultRedisAddress = "127.0.0.1:6379"

	DefaultFetchTimeout    = "12s"
	DefaultMaxConcurrency  = 8
	DefaultRefreshInterval = "0s"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidCacheBackend  = errors.New("invalid cache backend")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrInvalidConcurrency   = errors.New("max concurrency must be positive")
	ErrMissingSources       = errors.New("region has no sources")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the base-level server configuration
type Config struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The quote cache config
	Cache *Cache `toml:"cache"`

	// The source page fetch config
	Fetch *Fetch `toml:"fetch"`

	// The source pages, per region
	Sources *Sources `toml:"sources"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`
}

// Cache defines the quote cache configuration
type Cache struct {
	// memory or redis
	Backend string `toml:"backend"`

	// Per-region time-to-live, as a Go duration string
	TTL string `toml:"ttl"`

	RedisAddress string `toml:"redis_address"`
	RedisDB      int    `toml:"redis_db"`
}

// Fetch defines the source page fetch configuration
type Fetch struct {
	// Fixed per-page timeout, as a Go duration string
	Timeout string `toml:"timeout"`

	// Background refresh interval per region. Zero disables the refresher
	RefreshInterval string `toml:"refresh_interval"`

	// Max number of pages fetched at once per region batch
	MaxConcurrency int `toml:"max_concurrency"`
}

// Sources defines the source page URLs of every region
type Sources struct {
	AR []string `toml:"ar"`
	BR []string `toml:"br"`
}

// ForRegion returns the configured sources of the given region
func (s *Sources) ForRegion(region types.Region) []types.Source {
	var raw []string

	switch region {
	case types.RegionAR:
		raw = s.AR
	case types.RegionBR:
		raw = s.BR
	}

	sources := make([]types.Source, 0, len(raw))
	for _, r := range raw {
		sources = append(sources, types.Source(r))
	}

	return sources
}

// ByRegion returns the configured sources of every region
func (s *Sources) ByRegion() map[types.Region][]types.Source {
	out := make(map[types.Region][]types.Source, len(types.Regions))

	for _, region := range types.Regions {
		out[region] = s.ForRegion(region)
	}

	return out
}

// CacheTTL returns the parsed cache time-to-live
func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL)
}

// FetchTimeout returns the parsed per-page fetch timeout
func (c *Config) FetchTimeout() (time.Duration, error) {
	return parseDuration("fetch.timeout", c.Fetch.Timeout)
}

// RefreshInterval returns the parsed background refresh interval
func (c *Config) RefreshInterval() (time.Duration, error) {
	return parseDuration("fetch.refresh_interval", c.Fetch.RefreshInterval)
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		CORSConfig:    DefaultCORSConfig(),
		Cache:         defaultCache(),
		Fetch:         defaultFetch(),
		Sources:       defaultSources(),
	}
}

func defaultCache() *Cache {
	return &Cache{
		Backend:      CacheBackendMemory,
		TTL:          DefaultCacheTTL,
		RedisAddress: DefaultRedisAddress,
	}
}

func defaultFetch() *Fetch {
	return &Fetch{
		Timeout:         DefaultFetchTimeout,
		RefreshInterval: DefaultRefreshInterval,
		MaxConcurrency:  DefaultMaxConcurrency,
	}
}

func defaultSources() *Sources {
	var (
		s        = &Sources{}
		defaults = provider.DefaultSources()
	)

	for _, src := range defaults[types.RegionAR] {
		s.AR = append(s.AR, src.String())
	}

	for _, src := range defaults[types.RegionBR] {
		s.BR = append(s.BR, src.String())
	}

	return s
}

// ValidateConfig validates the server configuration
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	// Validate the cache
	switch config.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCacheBackend, config.Cache.Backend)
	}

	ttl, err := config.CacheTTL()
	if err != nil {
		return err
	}

	if ttl <= 0 {
		return fmt.Errorf("%w: cache.ttl must be positive", ErrInvalidDuration)
	}

	// Validate the fetch settings
	timeout, err := config.FetchTimeout()
	if err != nil {
		return err
	}

	if timeout <= 0 {
		return fmt.Errorf("%w: fetch.timeout must be positive", ErrInvalidDuration)
	}

	interval, err := config.RefreshInterval()
	if err != nil {
		return err
	}

	if interval < 0 {
		return fmt.Errorf("%w: fetch.refresh_interval must not be negative", ErrInvalidDuration)
	}

	if config.Fetch.MaxConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// Validate the sources
	for _, region := range types.Regions {
		if len(config.Sources.ForRegion(region)) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingSources, region)
		}
	}

	return nil
}

// Read reads the configuration from the given path.
// Sections missing from the file keep their defaults
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in every setting absent from a parsed config
func applyDefaults(cfg *Config) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if cfg.CORSConfig == nil {
		cfg.CORSConfig = DefaultCORSConfig()
	}

	if cfg.Cache == nil {
		cfg.Cache = defaultCache()
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendMemory
	}

	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = DefaultCacheTTL
	}

	if cfg.Cache.RedisAddress == "" {
		cfg.Cache.RedisAddress = DefaultRedisAddress
	}

	if cfg.Fetch == nil {
		cfg.Fetch = defaultFetch()
	}

	if cfg.Fetch.Timeout == "" {
		cfg.Fetch.Timeout = DefaultFetchTimeout
	}

	if cfg.Fetch.RefreshInterval == "" {
		cfg.Fetch.RefreshInterval = DefaultRefreshInterval
	}

	if cfg.Fetch.MaxConcurrency == 0 {
		cfg.Fetch.MaxConcurrency = DefaultMaxConcurrency
	}

	defaults := defaultSources()

	if cfg.Sources == nil {
		cfg.Sources = defaults
	}

	if len(cfg.Sources.AR) == 0 {
		cfg.Sources.AR = defaults.AR
	}

	if len(cfg.Sources.BR) == 0 {
		cfg.Sources.BR = defaults.BR
	}
}

func parseDuration(name, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidDuration, name, raw)
	}

	return d, nil
}
