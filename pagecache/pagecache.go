package pagecache

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/pageview/backend"
	"github.com/tsawler/pageview/model"
)

// DefaultBound is the resident page limit used when none is configured.
const DefaultBound = 16

// Loader loads pages by zero-based index. backend.Handle satisfies it.
type Loader interface {
	LoadPage(index int) (backend.Page, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(index int) (backend.Page, error)

// LoadPage calls f(index).
func (f LoaderFunc) LoadPage(index int) (backend.Page, error) {
	return f(index)
}

type slotState int

const (
	unloaded slotState = iota
	loaded
	failed
)

type slot struct {
	state    slotState
	page     backend.Page
	err      error
	lastUsed uint64
}

// Stats counts cache activity since the cache was created.
type Stats struct {
	Loads     int // calls made to the loader
	Hits      int // requests served from a loaded slot
	Failures  int // loads that failed
	Evictions int // pages released to honour the bound
}

// Cache holds the loaded pages of one document.
type Cache struct {
	loader   Loader
	bound    int
	clock    uint64
	slots    map[int]*slot
	resident int
	closed   bool
	stats    Stats
	log      logrus.FieldLogger
}

// Option configures a Cache.
type Option func(*Cache)

// WithBound sets the maximum number of resident pages. Values below one
// select DefaultBound.
func WithBound(n int) Option {
	return func(c *Cache) {
		if n < 1 {
			n = DefaultBound
		}
		c.bound = n
	}
}

// WithLogger sets the logger used for load and eviction events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates an empty cache in front of loader.
func New(loader Loader, opts ...Option) *Cache {
	c := &Cache{
		loader: loader,
		bound:  DefaultBound,
		slots:  make(map[int]*slot),
		log:    discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the page at index, loading it if necessary. Load failures
// are returned as *model.LoadError and cached for the lifetime of the
// cache. At the bound, the least recently used page is released before
// the loader runs, so no more than the bound are ever resident; a load
// that then fails leaves one fewer page resident.
func (c *Cache) Get(index int) (backend.Page, error) {
	if c.closed {
		return nil, &model.LoadError{Page: index, Err: model.ErrClosed}
	}

	if s, ok := c.slots[index]; ok {
		switch s.state {
		case failed:
			return nil, s.err
		case loaded:
			c.stats.Hits++
			c.touch(s)
			return s.page, nil
		}
	}

	if c.resident >= c.bound {
		c.evictLRU()
	}

	c.stats.Loads++
	page, err := c.loader.LoadPage(index)
	if err != nil {
		c.stats.Failures++
		var le *model.LoadError
		if !errors.As(err, &le) {
			le = &model.LoadError{Page: index, Err: err}
		}
		c.slots[index] = &slot{state: failed, err: le}
		c.log.WithFields(logrus.Fields{"page": index}).WithError(err).Warn("page load failed")
		return nil, le
	}

	s := &slot{state: loaded, page: page}
	c.slots[index] = s
	c.resident++
	c.touch(s)
	c.log.WithFields(logrus.Fields{"page": index, "resident": c.resident}).Debug("page loaded")
	return page, nil
}

// touch stamps s with the current clock and advances it.
func (c *Cache) touch(s *slot) {
	s.lastUsed = c.clock
	c.clock++
}

// evictLRU releases the loaded page with the oldest stamp.
func (c *Cache) evictLRU() {
	victim := -1
	var oldest uint64
	for idx, s := range c.slots {
		if s.state != loaded {
			continue
		}
		if victim < 0 || s.lastUsed < oldest {
			victim, oldest = idx, s.lastUsed
		}
	}
	if victim < 0 {
		return
	}
	c.release(victim)
	c.stats.Evictions++
}

// release closes a loaded page and returns its slot to unloaded.
func (c *Cache) release(index int) {
	s := c.slots[index]
	delete(c.slots, index)
	c.resident--
	if err := s.page.Close(); err != nil {
		c.log.WithFields(logrus.Fields{"page": index}).WithError(err).Warn("page close failed")
		return
	}
	c.log.WithFields(logrus.Fields{"page": index}).Debug("page released")
}

// Evict releases the page at index if it is loaded. Cached failures are
// kept. It reports whether a page was released.
func (c *Cache) Evict(index int) bool {
	s, ok := c.slots[index]
	if !ok || s.state != loaded {
		return false
	}
	c.release(index)
	return true
}

// Loaded reports whether the page at index is resident.
func (c *Cache) Loaded(index int) bool {
	s, ok := c.slots[index]
	return ok && s.state == loaded
}

// Failed reports whether loading the page at index has failed.
func (c *Cache) Failed(index int) bool {
	s, ok := c.slots[index]
	return ok && s.state == failed
}

// Resident returns the number of loaded pages.
func (c *Cache) Resident() int {
	return c.resident
}

// Bound returns the resident page limit.
func (c *Cache) Bound() int {
	return c.bound
}

// Stats returns a snapshot of the activity counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Close releases every resident page exactly once and forgets cached
// failures. Later calls to Get fail with model.ErrClosed. Close errors
// from individual pages are joined.
func (c *Cache) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	for idx, s := range c.slots {
		if s.state == loaded {
			if err := s.page.Close(); err != nil {
				errs = append(errs, &model.LoadError{Page: idx, Err: err})
			}
		}
	}
	c.slots = make(map[int]*slot)
	c.resident = 0
	return errors.Join(errs...)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
