package lang

import "github.com/ardnew/skui/log"

// DefaultMaxDepth is the default maximum nesting depth of component bodies,
// parameter lists and composite values.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// optionsKey holds the options that affect the parse result.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	maxDepth int
}

// options configures a single Parse, Check or ParseReader call.
type options struct {
	optionsKey

	cache  bool
	logger log.Logger
}

// Option configures parsing behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth. Values below 1 select
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithCache enables or disables the content-addressed parse cache used by
// [ParseReader]. The cache is enabled by default.
func WithCache(enable bool) Option {
	return func(o *options) {
		o.cache = enable
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		optionsKey: optionsKey{maxDepth: DefaultMaxDepth},
		cache:      true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
