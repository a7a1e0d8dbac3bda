// Package query is a keyed, de-duplicating cache for asynchronous reads,
// with prefix invalidation driven by mutations.
//
// Every cached result lives in one entry addressed by its Key. At most one
// request per entry is in flight; concurrent readers of the same key join it.
// Observers subscribe to an entry and are told whenever its state changes.
package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Config configures a Client.
type Config struct {
	// StaleTime is how long fetched data is served without refetching.
	// Zero makes every read refetch.
	StaleTime time.Duration
	// GCTime is how long an entry without observers is kept. Zero disables collection.
	GCTime time.Duration
	// Retry is the number of extra attempts for failed reads.
	Retry int
	// RetryDelay returns the wait before retry attempt n (0-based).
	RetryDelay func(attempt int) time.Duration
}

// ErrNoQueryFn is returned when a key is read before any query function was registered for it.
var ErrNoQueryFn = errors.New("query: no query function for key")

type fetchFunc func(ctx context.Context) (any, error)

type call struct {
	done chan struct{}
	val  any
	err  error
}

type subscriber struct {
	enabled bool
	notify  func()
}

type entry struct {
	key   Key
	hash  string
	parts []string
	fn    fetchFunc

	data      any
	hasData   bool
	err       error
	updatedAt time.Time

	inflight    *call
	invalidated bool
	refetch     bool // invalidated while a request was in flight

	subscribers map[string]subscriber
	idleSince   time.Time
}

func (e *entry) hasEnabled() bool {
	for _, s := range e.subscribers {
		if s.enabled {
			return true
		}
	}
	return false
}

func (e *entry) notifiers() []func() {
	out := make([]func(), 0, len(e.subscribers))
	for _, s := range e.subscribers {
		out = append(out, s.notify)
	}
	return out
}

// Client owns the cache table.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry

	opts   Config
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

// NewClient creates a cache and starts its background scheduler.
func NewClient(opts Config, log zerolog.Logger) *Client {
	if opts.RetryDelay == nil {
		opts.RetryDelay = DefaultRetryDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		entries: make(map[string]*entry),
		opts:    opts,
		cron:    cron.New(cron.WithSeconds()),
		ctx:     ctx,
		cancel:  cancel,
		log:     log.With().Str("component", "query_cache").Logger(),
	}

	if opts.GCTime > 0 {
		c.cron.Schedule(cron.Every(time.Minute), cron.FuncJob(func() {
			c.GC(time.Now())
		}))
	}
	c.cron.Start()
	return c
}

// Close cancels in-flight requests and stops polling and collection.
func (c *Client) Close() {
	c.cancel()
	ctx := c.cron.Stop()
	<-ctx.Done()
	c.log.Debug().Msg("Query cache closed")
}

// entryLocked returns the entry for key, creating it. Caller holds c.mu.
func (c *Client) entryLocked(key Key) *entry {
	parts := key.parts()
	h := hash(parts)
	if e, ok := c.entries[h]; ok {
		return e
	}
	e := &entry{
		key:         key,
		hash:        h,
		parts:       parts,
		subscribers: make(map[string]subscriber),
		idleSince:   time.Now(),
	}
	c.entries[h] = e
	return e
}

func (c *Client) staleLocked(e *entry, staleTime time.Duration) bool {
	if e == nil || !e.hasData || e.invalidated {
		return true
	}
	if staleTime <= 0 {
		staleTime = c.opts.StaleTime
	}
	return time.Since(e.updatedAt) >= staleTime
}

// fetchLocked starts a request for e or joins the one in flight.
// It reports whether a new request was started. Caller holds c.mu.
func (c *Client) fetchLocked(e *entry) (*call, bool) {
	if e.inflight != nil {
		c.log.Debug().Stringer("key", e.key).Msg("Joining in-flight request")
		return e.inflight, false
	}

	cl := &call{done: make(chan struct{})}
	e.inflight = cl
	go c.run(e, cl, e.fn)
	return cl, true
}

func (c *Client) run(e *entry, cl *call, fn fetchFunc) {
	start := time.Now()
	val, err := c.withRetry(e.key, fn)

	c.mu.Lock()
	cl.val, cl.err = val, err
	e.inflight = nil

	again := e.refetch
	e.refetch = false
	if err == nil {
		e.data = val
		e.hasData = true
		e.err = nil
		e.updatedAt = time.Now()
		e.invalidated = again
	} else {
		e.err = err
	}
	if again && e.hasEnabled() {
		c.fetchLocked(e)
	}
	notify := e.notifiers()
	close(cl.done)
	c.mu.Unlock()

	if err != nil {
		c.log.Warn().Err(err).Stringer("key", e.key).Msg("Query failed")
	} else {
		c.log.Debug().Stringer("key", e.key).Dur("duration", time.Since(start)).Msg("Query fetched")
	}

	for _, n := range notify {
		n()
	}
}

// Fetch returns fresh cached data for opts.Key, or fetches it, joining any
// request already in flight for the same key.
func Fetch[T any](ctx context.Context, c *Client, opts Options[T]) (T, error) {
	var zero T

	c.mu.Lock()
	e := c.entryLocked(opts.Key)
	if opts.Fn != nil {
		e.fn = wrap(opts.Fn)
	}
	if !c.staleLocked(e, opts.StaleTime) {
		v, _ := e.data.(T)
		c.mu.Unlock()
		return v, nil
	}
	if e.fn == nil {
		c.mu.Unlock()
		return zero, ErrNoQueryFn
	}
	cl, started := c.fetchLocked(e)
	var notify []func()
	if started {
		notify = e.notifiers()
	}
	c.mu.Unlock()

	for _, n := range notify {
		n()
	}

	select {
	case <-cl.done:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if cl.err != nil {
		return zero, cl.err
	}
	v, _ := cl.val.(T)
	return v, nil
}

// GetQueryData returns the cached value for key without fetching.
func GetQueryData[T any](c *Client, key Key) (T, bool) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[hash(key.parts())]
	if !ok || !e.hasData {
		return zero, false
	}
	v, ok := e.data.(T)
	return v, ok
}

// IsStale reports whether the next read of key would refetch.
func (c *Client) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.staleLocked(c.entries[hash(key.parts())], 0)
}

// Invalidate marks every entry whose key starts with prefix as stale and
// refetches the ones currently observed. It returns the number of matching entries.
func (c *Client) Invalidate(prefix Key) int {
	want := prefix.parts()

	c.mu.Lock()
	var notify []func()
	matched := 0
	for _, e := range c.entries {
		if !hasPrefix(e.parts, want) {
			continue
		}
		matched++
		e.invalidated = true
		if !e.hasEnabled() || e.fn == nil {
			continue
		}
		if e.inflight != nil {
			e.refetch = true
			continue
		}
		c.fetchLocked(e)
		notify = append(notify, e.notifiers()...)
	}
	c.mu.Unlock()

	c.log.Debug().Stringer("prefix", prefix).Int("matched", matched).Msg("Invalidated queries")

	for _, n := range notify {
		n()
	}
	return matched
}

// GC drops entries that have had no observers for longer than GCTime.
func (c *Client) GC(now time.Time) int {
	if c.opts.GCTime <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for h, e := range c.entries {
		if len(e.subscribers) > 0 || e.inflight != nil {
			continue
		}
		if now.Sub(e.idleSince) >= c.opts.GCTime {
			delete(c.entries, h)
			removed++
		}
	}
	if removed > 0 {
		c.log.Debug().Int("removed", removed).Msg("Collected idle queries")
	}
	return removed
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func wrap[T any](fn func(context.Context) (T, error)) fetchFunc {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}
