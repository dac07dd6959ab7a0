// Package metrics exposes accessor resolution counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name unless configured otherwise.
const DefaultNamespace = "graph_mapper"

// Outcome labels of resolution attempts.
const (
	OutcomeResolved  = "resolved"
	OutcomeNoMatch   = "no_match"
	OutcomeAmbiguous = "ambiguous"
)

// Collector holds the resolver metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	// Resolutions counts fresh resolutions by operation, matching rule and
	// outcome. Cached lookups are not counted here.
	Resolutions *prometheus.CounterVec

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// AccessorFailures counts failed reads and writes by operation and
	// capability.
	AccessorFailures *prometheus.CounterVec
}

// NewCollector creates a collector with the given namespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()

	resolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Total number of accessor resolutions",
		},
		[]string{"operation", "rule", "outcome"},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accessor_cache_hits_total",
			Help:      "Total number of accessor cache hits",
		},
	)

	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accessor_cache_misses_total",
			Help:      "Total number of accessor cache misses",
		},
	)

	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accessor_failures_total",
			Help:      "Total number of failed reads and writes",
		},
		[]string{"operation", "capability"},
	)

	registry.MustRegister(resolutions, cacheHits, cacheMisses, failures)

	return &Collector{
		registry:         registry,
		Resolutions:      resolutions,
		CacheHits:        cacheHits,
		CacheMisses:      cacheMisses,
		AccessorFailures: failures,
	}
}

// Registry returns the Prometheus registry holding the metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordResolution counts one fresh resolution.
func (c *Collector) RecordResolution(operation, rule, outcome string) {
	if c == nil {
		return
	}

	c.Resolutions.WithLabelValues(operation, rule, outcome).Inc()
}

// RecordCache counts one accessor cache lookup.
func (c *Collector) RecordCache(hit bool) {
	if c == nil {
		return
	}

	if hit {
		c.CacheHits.Inc()
	} else {
		c.CacheMisses.Inc()
	}
}

// RecordFailure counts one failed read or write.
func (c *Collector) RecordFailure(operation, capability string) {
	if c == nil {
		return
	}

	c.AccessorFailures.WithLabelValues(operation, capability).Inc()
}
