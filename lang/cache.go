package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Cache holds parsed templates keyed by name and content hash.
//
// Two lookups with the same name and identical source share one [Template],
// and therefore one parse. Changing a template's source produces a new entry.
// A Cache is safe for concurrent use; the zero value is not usable, use
// [NewCache].
type Cache struct {
	entries sync.Map // key -> *Template
	count   atomic.Int64
	hits    atomic.Int64
	misses  atomic.Int64
	cfg     config
	opts    []Option
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries int64
	Hits    int64
	Misses  int64
}

// NewCache returns an empty Cache. opts are applied to every template it
// creates.
func NewCache(opts ...Option) *Cache {
	return &Cache{cfg: makeConfig(opts...), opts: opts}
}

// cacheKey identifies a template by name and source content.
func cacheKey(name, source string) string {
	return name + ":" + strconv.FormatUint(xxh3.HashString(source), 36)
}

// Get returns the cached template for name and source, creating it on a
// miss. The template is parsed on first use, not by Get.
func (c *Cache) Get(name, source string) *Template {
	key := cacheKey(name, source)

	if v, ok := c.entries.Load(key); ok {
		c.hits.Add(1)
		c.cfg.logger.Trace("cache lookup",
			slog.String("template", name),
			slog.Bool("cache_hit", true))

		return v.(*Template)
	}

	v, loaded := c.entries.LoadOrStore(key, New(name, source, c.opts...))
	if loaded {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
		c.count.Add(1)
	}

	c.cfg.logger.Trace("cache lookup",
		slog.String("template", name),
		slog.Bool("cache_hit", loaded))

	return v.(*Template)
}

// ParseReader reads template source from r and returns the cached, parsed
// template for it.
func (c *Cache) ParseReader(
	ctx context.Context,
	name string,
	r io.Reader,
) (*Template, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).WithTemplate(name)
	}

	c.cfg.logger.TraceContext(ctx, "read input",
		slog.String("template", name),
		slog.Int("source_bytes", len(data)))

	t := c.Get(name, string(data))
	if _, err := t.Parse(); err != nil {
		return nil, err
	}

	return t, nil
}

// Len returns the number of cached templates.
func (c *Cache) Len() int { return int(c.count.Load()) }

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Entries: c.count.Load(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// Clear removes every cached template. Templates already handed out remain
// usable.
func (c *Cache) Clear() {
	c.entries.Range(func(k, _ any) bool {
		if _, ok := c.entries.LoadAndDelete(k); ok {
			c.count.Add(-1)
		}

		return true
	})
}
