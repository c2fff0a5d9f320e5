package gen

import (
	"runtime"

	"github.com/ardnew/skel/lang"
	"github.com/ardnew/skel/log"
)

// EmptyPolicy decides what happens to a file whose rendered content is empty.
type EmptyPolicy int

const (
	EmptyEmit EmptyPolicy = iota // emit
	EmptySkip                    // skip
)

// String returns the name of the policy.
func (p EmptyPolicy) String() string {
	switch p {
	case EmptyEmit:
		return "emit"
	case EmptySkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Option configures a generation run.
type Option func(*config)

type config struct {
	jobs   int
	empty  EmptyPolicy
	cache  *lang.Cache
	logger log.Logger
}

func makeConfig(opts ...Option) config {
	cfg := config{jobs: runtime.GOMAXPROCS(0), empty: EmptyEmit}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.jobs < 1 {
		cfg.jobs = 1
	}

	if cfg.cache == nil {
		cfg.cache = lang.NewCache(lang.WithLogger(cfg.logger))
	}

	return cfg
}

// WithConcurrency bounds the number of files rendered at once. Values below
// one mean one. The default is [runtime.GOMAXPROCS].
func WithConcurrency(n int) Option {
	return func(c *config) { c.jobs = n }
}

// WithEmpty sets the empty-output policy. The default is [EmptyEmit].
func WithEmpty(p EmptyPolicy) Option {
	return func(c *config) { c.empty = p }
}

// WithCache shares parsed templates with other runs. By default each run
// uses a fresh cache.
func WithCache(cache *lang.Cache) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets the logger for per-file diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}
