package view

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelikelen/dashboard-backend/pkg/changefeed"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestWatcherRefetchesOnChange(t *testing.T) {
	hub := changefeed.NewHub()
	defer hub.Close()

	var version atomic.Int64
	fetch := func(ctx context.Context) (int64, error) {
		return version.Add(1), nil
	}

	w := NewWatcher("inventory_items", fetch, hub, nil)
	w.Start(context.Background())
	defer w.Stop()

	snap, ok := w.Snapshot()
	require.True(t, ok)
	assert.Equal(t, int64(1), snap.Data)
	assert.False(t, snap.Stale)

	hub.Publish(changefeed.Event{Table: "inventory_items", Action: changefeed.ActionUpdate})

	waitFor(t, func() bool {
		snap, _ := w.Snapshot()
		return snap.Data == 2
	})
}

func TestWatcherIgnoresOtherTables(t *testing.T) {
	hub := changefeed.NewHub()
	defer hub.Close()

	var fetches atomic.Int64
	fetch := func(ctx context.Context) (int64, error) {
		return fetches.Add(1), nil
	}

	w := NewWatcher("inventory_items", fetch, hub, nil)
	w.Start(context.Background())
	defer w.Stop()

	hub.Publish(changefeed.Event{Table: "service_schedule", Action: changefeed.ActionInsert})
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int64(1), fetches.Load(), "foreign table changes must not trigger refetch")
}

func TestWatcherKeepsStaleSnapshotOnFailedRefetch(t *testing.T) {
	hub := changefeed.NewHub()
	defer hub.Close()

	var fail atomic.Bool
	fetch := func(ctx context.Context) (string, error) {
		if fail.Load() {
			return "", errors.New("db down")
		}
		return "fresh", nil
	}

	w := NewWatcher("inventory_items", fetch, hub, nil)
	w.Start(context.Background())
	defer w.Stop()

	fail.Store(true)
	hub.Publish(changefeed.Event{Table: "inventory_items", Action: changefeed.ActionDelete})

	waitFor(t, func() bool {
		snap, _ := w.Snapshot()
		return snap.Stale
	})

	snap, ok := w.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "fresh", snap.Data, "previous data survives a failed refetch")
}

func TestWatcherRecoversAfterFailedInitialFetch(t *testing.T) {
	hub := changefeed.NewHub()
	defer hub.Close()

	var fail atomic.Bool
	fail.Store(true)
	fetch := func(ctx context.Context) (string, error) {
		if fail.Load() {
			return "", errors.New("db down")
		}
		return "recovered", nil
	}

	w := NewWatcher("inventory_items", fetch, hub, nil)
	w.Start(context.Background())
	defer w.Stop()

	_, ok := w.Snapshot()
	assert.False(t, ok, "watcher must not report ready before a successful fetch")

	fail.Store(false)
	hub.Publish(changefeed.Event{Table: "inventory_items", Action: changefeed.ActionInsert})

	waitFor(t, func() bool {
		snap, ok := w.Snapshot()
		return ok && snap.Data == "recovered"
	})
}

func TestWatcherStopEndsRefreshLoop(t *testing.T) {
	hub := changefeed.NewHub()
	defer hub.Close()

	fetch := func(ctx context.Context) (int, error) { return 1, nil }
	w := NewWatcher("inventory_items", fetch, hub, nil)
	w.Start(context.Background())
	w.Stop()

	// publish after stop must not panic or deadlock
	hub.Publish(changefeed.Event{Table: "inventory_items", Action: changefeed.ActionInsert})
}

func TestWatcherWithoutHub(t *testing.T) {
	fetch := func(ctx context.Context) (int, error) { return 42, nil }
	w := NewWatcher[int]("inventory_items", fetch, nil, nil)
	w.Start(context.Background())
	defer w.Stop()

	snap, ok := w.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 42, snap.Data)
}
