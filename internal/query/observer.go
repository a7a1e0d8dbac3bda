package query

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Options describe one query: what to cache and how to fetch it.
type Options[T any] struct {
	Key Key
	Fn  func(ctx context.Context) (T, error)
	// Disabled keeps the query from fetching. Cached data is still reported.
	Disabled bool
	// RefetchInterval polls the query while it is observed and enabled.
	RefetchInterval time.Duration
	// StaleTime overrides the client default when positive.
	StaleTime time.Duration
}

// Observer keeps one consumer subscribed to a query and calls its listener
// on every state change.
//
// The listener runs on cache goroutines and must not call back into the
// Observer synchronously.
type Observer[T any] struct {
	c        *Client
	id       string
	listener func(State[T])

	mu       sync.Mutex
	opts     Options[T]
	hash     string
	attached bool
	poll     cron.EntryID
	polling  time.Duration

	deliverMu sync.Mutex
	closed    bool
}

// Observe subscribes listener to the query described by opts, starting a
// fetch when the cached data is missing or stale. The current state is
// delivered before Observe returns.
func Observe[T any](c *Client, opts Options[T], listener func(State[T])) *Observer[T] {
	if listener == nil {
		listener = func(State[T]) {}
	}
	o := &Observer[T]{
		c:        c,
		id:       uuid.NewString(),
		listener: listener,
	}
	o.SetOptions(opts)
	return o
}

// SetOptions switches the observer to new options, typically a new key
// after a filter change. The previous entry stays cached.
func (o *Observer[T]) SetOptions(opts Options[T]) {
	c := o.c
	enabled := !opts.Disabled
	parts := opts.Key.parts()
	h := hash(parts)

	o.mu.Lock()
	c.mu.Lock()
	if o.attached && o.hash != h {
		o.detachLocked()
	}

	e := c.entryLocked(opts.Key)
	if opts.Fn != nil {
		e.fn = wrap(opts.Fn)
	}
	e.subscribers[o.id] = subscriber{enabled: enabled, notify: o.deliver}
	o.attached = true
	o.hash = h
	o.opts = opts

	var notify []func()
	if enabled && e.fn != nil && e.inflight == nil && c.staleLocked(e, opts.StaleTime) {
		c.fetchLocked(e)
		for id, s := range e.subscribers {
			if id != o.id {
				notify = append(notify, s.notify)
			}
		}
	}
	c.mu.Unlock()

	o.schedulePollLocked(enabled, opts.RefetchInterval)
	o.mu.Unlock()

	for _, n := range notify {
		n()
	}
	o.deliver()
}

// schedulePollLocked keeps the cron job in line with the options. Caller holds o.mu.
func (o *Observer[T]) schedulePollLocked(enabled bool, interval time.Duration) {
	want := time.Duration(0)
	if enabled && interval > 0 {
		want = interval
	}
	if want == o.polling {
		return
	}
	if o.polling > 0 {
		o.c.cron.Remove(o.poll)
	}
	o.polling = want
	if want > 0 {
		o.poll = o.c.cron.Schedule(cron.Every(want), cron.FuncJob(o.Refetch))
	}
}

// detachLocked removes the subscription from the current entry. Caller holds o.mu and c.mu.
func (o *Observer[T]) detachLocked() {
	if e, ok := o.c.entries[o.hash]; ok {
		delete(e.subscribers, o.id)
		if len(e.subscribers) == 0 {
			e.idleSince = time.Now()
		}
	}
	o.attached = false
}

// State returns the current snapshot of the observed query.
func (o *Observer[T]) State() State[T] {
	o.mu.Lock()
	h, opts := o.hash, o.opts
	o.mu.Unlock()

	c := o.c
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[h]
	return snapshot[T](e, !opts.Disabled, c.staleLocked(e, opts.StaleTime))
}

// Refetch fetches the observed query now, unless it is disabled or already in flight.
func (o *Observer[T]) Refetch() {
	o.mu.Lock()
	h, disabled := o.hash, o.opts.Disabled
	o.mu.Unlock()
	if disabled {
		return
	}

	c := o.c
	c.mu.Lock()
	e, ok := c.entries[h]
	if !ok || e.fn == nil || e.inflight != nil {
		c.mu.Unlock()
		return
	}
	c.fetchLocked(e)
	notify := e.notifiers()
	c.mu.Unlock()

	for _, n := range notify {
		n()
	}
}

// Close unsubscribes the observer. No listener call starts after Close returns.
func (o *Observer[T]) Close() {
	o.deliverMu.Lock()
	o.closed = true
	o.deliverMu.Unlock()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.schedulePollLocked(false, 0)

	o.c.mu.Lock()
	if o.attached {
		o.detachLocked()
	}
	o.c.mu.Unlock()
}

func (o *Observer[T]) deliver() {
	o.deliverMu.Lock()
	defer o.deliverMu.Unlock()
	if o.closed {
		return
	}
	o.listener(o.State())
}
