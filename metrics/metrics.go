package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sig-0/fxquotes/storage/types"
)

const namespace = "fxquotes"

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"

	unresolved = "none"
)

// Metrics groups the service collectors.
// A nil *Metrics is valid and records nothing
type Metrics struct {
	pageFetches    *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	extractedSides *prometheus.CounterVec
	persistErrors  *prometheus.CounterVec
	batchDuration  *prometheus.HistogramVec
}

// New creates the service collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_fetches_total",
			Help:      "Source page fetches, by region and outcome.",
		}, []string{"region", "outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Quote cache lookups, by region and result.",
		}, []string{"region", "result"}),
		extractedSides: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extracted_sides_total",
			Help:      "Extracted price sides, by region, side and resolving strategy.",
		}, []string{"region", "side", "strategy"}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Quote observations that could not be saved, by region.",
		}, []string{"region"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of a full region fetch batch.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 12, 16},
		}, []string{"region"}),
	}

	reg.MustRegister(
		m.pageFetches,
		m.cacheLookups,
		m.extractedSides,
		m.persistErrors,
		m.batchDuration,
	)

	return m
}

// PageFetched records a source page fetch outcome
func (m *Metrics) PageFetched(region types.Region, err error) {
	if m == nil {
		return
	}

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}

	m.pageFetches.WithLabelValues(region.String(), outcome).Inc()
}

// CacheLookup records a cache lookup result
func (m *Metrics) CacheLookup(region types.Region, result string) {
	if m == nil {
		return
	}

	m.cacheLookups.WithLabelValues(region.String(), result).Inc()
}

// SidesExtracted records which strategy resolved each side of a pair.
// An empty strategy name is recorded as unresolved
func (m *Metrics) SidesExtracted(region types.Region, buyStrategy, sellStrategy string) {
	if m == nil {
		return
	}

	m.extractedSides.WithLabelValues(region.String(), "buy", strategyLabel(buyStrategy)).Inc()
	m.extractedSides.WithLabelValues(region.String(), "sell", strategyLabel(sellStrategy)).Inc()
}

// PersistFailed records a failed observation write
func (m *Metrics) PersistFailed(region types.Region) {
	if m == nil {
		return
	}

	m.persistErrors.WithLabelValues(region.String()).Inc()
}

// BatchCompleted records the duration of a region batch
func (m *Metrics) BatchCompleted(region types.Region, d time.Duration) {
	if m == nil {
		return
	}

	m.batchDuration.WithLabelValues(region.String()).Observe(d.Seconds())
}

func strategyLabel(name string) string {
	if name == "" {
		return unresolved
	}

	return name
}

// Handler exposes the collectors gathered by g in the Prometheus text format.
// Collection errors are served as partial results
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
