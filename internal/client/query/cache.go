// Package query caches server reads by key and invalidates them after
// writes. One fetch runs per key at a time; results that were invalidated
// while in flight never reach the cache.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	TopicInvalidated = "query.invalidated"

	DefaultStaleTime  = 5 * time.Minute
	DefaultMaxEntries = 256
)

type Options struct {
	StaleTime  time.Duration
	MaxEntries int
}

// FetchFunc loads the value for a key. It receives a context that is not
// cancelled when the caller gives up.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	key   Key
	value any
}

type flight struct {
	key   Key
	stale bool
}

type Cache struct {
	entries *expirable.LRU[string, entry]
	group   singleflight.Group
	bus     *events.EventBus
	logger  *slog.Logger

	mu      sync.Mutex
	flights map[string]*flight
}

func NewCache(opts Options, bus *events.EventBus, logger *slog.Logger) *Cache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries: expirable.NewLRU[string, entry](opts.MaxEntries, nil, opts.StaleTime),
		bus:     bus,
		logger:  logger,
		flights: make(map[string]*flight),
	}
}

// Query returns the fresh cached value for key, or runs fetch. Concurrent
// callers with an equal key share one fetch and its result or error.
func (c *Cache) Query(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	id := key.String()
	if e, ok := c.entries.Get(id); ok {
		return e.value, nil
	}

	ch := c.group.DoChan(id, func() (any, error) {
		f := &flight{key: key}
		c.mu.Lock()
		c.flights[id] = f
		c.mu.Unlock()

		c.logger.Debug("query fetch", "key", id)
		v, err := fetch(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.flights[id] == f {
			delete(c.flights, id)
		}
		if err != nil {
			return nil, err
		}
		if f.stale {
			c.logger.Debug("discarding invalidated fetch", "key", id)
			return v, nil
		}
		c.entries.Add(id, entry{key: key, value: v})
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Mutate runs fn and, when it succeeds, invalidates every key under each
// of the given prefixes.
func (c *Cache) Mutate(ctx context.Context, fn func(ctx context.Context) error, invalidates ...Key) error {
	if err := fn(ctx); err != nil {
		return err
	}
	for _, prefix := range invalidates {
		c.Invalidate(prefix)
	}
	return nil
}

// Invalidate drops cached values under prefix and detaches matching
// in-flight fetches so the next Query starts over.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	for _, id := range c.entries.Keys() {
		if e, ok := c.entries.Peek(id); ok && e.key.HasPrefix(prefix) {
			c.entries.Remove(id)
		}
	}
	for id, f := range c.flights {
		if f.key.HasPrefix(prefix) {
			c.detach(id, f)
		}
	}
	c.mu.Unlock()

	c.publish(prefix)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries.Purge()
	for id, f := range c.flights {
		c.detach(id, f)
	}
	c.mu.Unlock()

	c.publish(Key{})
}

// Len reports how many fresh entries are cached.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// SubscribeInvalidated calls fn with the invalidated prefix after every
// Invalidate or Clear. Clear reports the empty key.
func (c *Cache) SubscribeInvalidated(fn func(Key)) events.Unsubscribe {
	return c.bus.Subscribe(TopicInvalidated, func(_ context.Context, e events.Event) error {
		if k, ok := e.Payload().(Key); ok {
			fn(k)
		}
		return nil
	})
}

// detach must be called with c.mu held.
func (c *Cache) detach(id string, f *flight) {
	f.stale = true
	delete(c.flights, id)
	c.group.Forget(id)
}

func (c *Cache) publish(prefix Key) {
	if err := c.bus.PublishSync(context.Background(), events.NewEvent(TopicInvalidated, prefix)); err != nil {
		c.logger.Error("invalidation subscriber failed", "prefix", prefix.String(), "error", err)
	}
}

// Fetch is the typed form of Cache.Query.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Query(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: cached %T, want %T", key, v, zero)
	}
	return t, nil
}

// Run is the typed form of Cache.Mutate that also returns fn's result.
func Run[T any](ctx context.Context, c *Cache, fn func(ctx context.Context) (T, error), invalidates ...Key) (T, error) {
	var out T
	err := c.Mutate(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	}, invalidates...)
	return out, err
}
