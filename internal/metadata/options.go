package metadata

import (
	"go.uber.org/zap"

	"graph-mapper/internal/annotation"
	"graph-mapper/internal/convert"
)

// DefaultIdentityNames are the field names recognized as identity when no
// field is tagged "id". Matching is case-insensitive.
var DefaultIdentityNames = []string{"id"}

type options struct {
	tagKey        string
	identityNames []string
	overlay       *annotation.Overlay
	converters    *convert.Registry
	logger        *zap.Logger
}

// Option configures Build.
type Option func(*options)

// WithTagKey sets the struct tag key read for annotations.
func WithTagKey(key string) Option {
	return func(o *options) { o.tagKey = key }
}

// WithIdentityNames replaces the conventional identity field names.
func WithIdentityNames(names ...string) Option {
	return func(o *options) { o.identityNames = names }
}

// WithOverlay adds annotations loaded from outside the Go source.
func WithOverlay(overlay *annotation.Overlay) Option {
	return func(o *options) { o.overlay = overlay }
}

// WithConverters sets the converter registry used for property fields.
func WithConverters(reg *convert.Registry) Option {
	return func(o *options) { o.converters = reg }
}

// WithLogger sets the logger. Build logs a summary at Info and per-type
// details at Debug.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) options {
	o := options{
		tagKey:        annotation.DefaultTagKey,
		identityNames: DefaultIdentityNames,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.converters == nil {
		o.converters = convert.NewRegistry()
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return o
}
