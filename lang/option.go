package lang

import "github.com/ardnew/skel/log"

// Option configures parsing and caching.
type Option func(*config)

type config struct {
	logger log.Logger
}

func makeConfig(opts ...Option) config {
	var cfg config

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithLogger sets the logger used for trace and debug diagnostics.
// The zero [log.Logger] discards everything and is the default.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}
