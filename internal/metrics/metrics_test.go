package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-mapper/internal/metrics"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector("test")

	c.RecordResolution("write", "annotated field", metrics.OutcomeResolved)
	c.RecordResolution("write", "annotated field", metrics.OutcomeResolved)
	c.RecordResolution("read", "none", metrics.OutcomeNoMatch)
	c.RecordCache(true)
	c.RecordCache(false)
	c.RecordCache(false)
	c.RecordFailure("write", "METHOD")

	assert.InDelta(t, 2, testutil.ToFloat64(c.Resolutions.WithLabelValues("write", "annotated field", metrics.OutcomeResolved)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.Resolutions.WithLabelValues("read", "none", metrics.OutcomeNoMatch)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.CacheHits), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.CacheMisses), 0)

	expected := `
# HELP test_accessor_failures_total Total number of failed reads and writes
# TYPE test_accessor_failures_total counter
test_accessor_failures_total{capability="METHOD",operation="write"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "test_accessor_failures_total"))
}

func TestCollector_Nil(t *testing.T) {
	t.Parallel()

	var c *metrics.Collector

	assert.NotPanics(t, func() {
		c.RecordResolution("read", "none", metrics.OutcomeAmbiguous)
		c.RecordCache(true)
		c.RecordFailure("read", "FIELD")
	})
}

func TestNewCollector_DefaultNamespace(t *testing.T) {
	t.Parallel()

	c := metrics.NewCollector("")
	c.RecordCache(true)

	n, err := testutil.GatherAndCount(c.Registry(), metrics.DefaultNamespace+"_accessor_cache_hits_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
