package quotes

import (
	"log/slog"
	"time"

	"github.com/sig-0/fxquotes/metrics"
)

type Option func(a *Aggregator)

// WithLogger specifies the logger for the aggregator
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = l
	}
}

// WithMetrics specifies the metrics collectors for the aggregator
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// WithMaxConcurrency caps the number of sources fetched at once per batch.
// Non-positive values are ignored
func WithMaxConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrency = n
		}
	}
}

// WithClock overrides the time source used to stamp observations
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}
