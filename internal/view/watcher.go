// Package view keeps per-table snapshots refreshed from the change feed.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/lelikelen/dashboard-backend/pkg/changefeed"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

const refetchTimeout = 10 * time.Second

// FetchFunc loads the current state of a watched view.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is the last known state of a view. Stale is set when a refetch
// failed after a change notification; the previous data is kept.
type Snapshot[T any] struct {
	Data      T
	FetchedAt time.Time
	Stale     bool
}

// Watcher holds a snapshot of one table and refreshes it whenever the change
// feed reports a write to that table.
type Watcher[T any] struct {
	table string
	fetch FetchFunc[T]
	hub   *changefeed.Hub
	logg  *logger.Logger

	mu    sync.RWMutex
	snap  Snapshot[T]
	ready bool

	cancelSub func()
	done      chan struct{}
}

// NewWatcher creates a watcher for table backed by fetch. A nil hub disables
// live refresh; the snapshot then only reflects the initial fetch.
func NewWatcher[T any](table string, fetch FetchFunc[T], hub *changefeed.Hub, logg *logger.Logger) *Watcher[T] {
	return &Watcher[T]{
		table: table,
		fetch: fetch,
		hub:   hub,
		logg:  logg,
		done:  make(chan struct{}),
	}
}

// Start performs the initial fetch and begins listening for changes. A failed
// initial fetch leaves the watcher not ready; the first successful refetch
// recovers it.
func (w *Watcher[T]) Start(ctx context.Context) {
	if data, err := w.fetch(ctx); err != nil {
		if w.logg != nil {
			w.logg.Error(ctx, "view initial fetch failed", err)
		}
	} else {
		w.store(data)
	}

	if w.hub == nil {
		close(w.done)
		return
	}

	events, cancel := w.hub.Subscribe(w.table)
	w.cancelSub = cancel
	go w.run(events)
}

func (w *Watcher[T]) run(events <-chan changefeed.Event) {
	defer close(w.done)
	for range events {
		w.refetch()
	}
}

func (w *Watcher[T]) refetch() {
	ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
	defer cancel()

	data, err := w.fetch(ctx)
	if err != nil {
		if w.logg != nil {
			w.logg.Error(ctx, "view refetch failed, serving stale snapshot", err)
		}
		w.markStale()
		return
	}
	w.store(data)
}

func (w *Watcher[T]) store(data T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snap = Snapshot[T]{Data: data, FetchedAt: time.Now().UTC()}
	w.ready = true
}

func (w *Watcher[T]) markStale() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snap.Stale = true
}

// Snapshot returns the current state. ok is false until the first successful
// fetch.
func (w *Watcher[T]) Snapshot() (Snapshot[T], bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap, w.ready
}

// Stop unsubscribes from the change feed and waits for the refresh loop to
// exit.
func (w *Watcher[T]) Stop() {
	if w.cancelSub != nil {
		w.cancelSub()
	}
	<-w.done
}
