package resolve

import (
	"go.uber.org/zap"

	"graph-mapper/internal/metrics"
)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures a Resolver.
type Option func(*options)

// WithLogger sets the logger. Fresh resolutions are logged at Debug.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records resolutions, cache lookups and accessor failures.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}
