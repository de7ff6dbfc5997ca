// Package ui holds the per-screen interaction state: which record is being
// edited, which modal is open, the active filters. Server data lives in the
// query cache, never here.
package ui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/hr-portal/internal/core/events"
)

// DateRange is an inclusive filter; a nil *DateRange means no filter.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Bounds returns pointers to copies of the ends, or nils for no filter.
func (r *DateRange) Bounds() (*time.Time, *time.Time) {
	if r == nil {
		return nil, nil
	}
	from, to := r.From, r.To
	return &from, &to
}

// store is the shared machinery behind every screen store: a guarded state
// value and a bus topic that carries snapshots to subscribers.
type store[S any] struct {
	topic  string
	bus    *events.EventBus
	logger *slog.Logger

	mu    sync.RWMutex
	state S
}

func newStore[S any](topic string, bus *events.EventBus, logger *slog.Logger) *store[S] {
	return &store[S]{topic: topic, bus: bus, logger: logger}
}

func (s *store[S]) Snapshot() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe calls fn with a snapshot after every change, on the goroutine
// that made it.
func (s *store[S]) Subscribe(fn func(S)) events.Unsubscribe {
	return s.bus.Subscribe(s.topic, func(_ context.Context, e events.Event) error {
		if snap, ok := e.Payload().(S); ok {
			fn(snap)
		}
		return nil
	})
}

// update applies fn under the lock and publishes after releasing it, so
// subscribers may read the store.
func (s *store[S]) update(fn func(*S)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state
	s.mu.Unlock()

	if err := s.bus.PublishSync(context.Background(), events.NewEvent(s.topic, snap)); err != nil {
		s.logger.Error("ui subscriber failed", "topic", s.topic, "error", err)
	}
}

func copyRange(r *DateRange) *DateRange {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
