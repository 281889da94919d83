package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/fxquotes/storage/types"
)

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PageFetched(types.RegionAR, nil)
	m.PageFetched(types.RegionAR, errors.New("boom"))
	m.PageFetched(types.RegionAR, errors.New("boom"))

	m.CacheLookup(types.RegionBR, CacheHit)

	m.SidesExtracted(types.RegionAR, "labeled_text", "")

	m.PersistFailed(types.RegionBR)

	m.BatchCompleted(types.RegionAR, 2*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.pageFetches.WithLabelValues("ar", OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pageFetches.WithLabelValues("ar", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("br", CacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractedSides.WithLabelValues("ar", "buy", "labeled_text")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extractedSides.WithLabelValues("ar", "sell", unresolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistErrors.WithLabelValues("br")))

	count, err := testutil.GatherAndCount(reg, "fxquotes_batch_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	var m *Metrics

	assert.NotPanics(t, func() {
		m.PageFetched(types.RegionAR, nil)
		m.CacheLookup(types.RegionAR, CacheMiss)
		m.SidesExtracted(types.RegionAR, "", "")
		m.PersistFailed(types.RegionAR)
		m.BatchCompleted(types.RegionAR, time.Second)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PageFetched(types.RegionBR, nil)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fxquotes_page_fetches_total{outcome="ok",region="br"} 1`)
}
