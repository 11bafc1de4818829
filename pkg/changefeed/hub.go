// Package changefeed delivers table-change notifications emitted by Postgres
// triggers to in-process subscribers.
package changefeed

import (
	"sync"
)

// Event describes one row-level change on a watched table.
type Event struct {
	Table  string `json:"table"`
	Action string `json:"action"`
}

// Actions carried in trigger payloads.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

const subscriberBuffer = 16

type subscriber struct {
	table string // empty means all tables
	ch    chan Event
}

// Hub fans events out to subscribers. Slow subscribers lose events rather
// than block the publisher.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscriber
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscriber)}
}

// Subscribe registers interest in changes to table. An empty table matches
// every event. The returned cancel func must be called to release the
// subscription; the channel is closed once cancelled.
func (h *Hub) Subscribe(table string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = subscriber{table: table, ch: ch}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub.ch)
			}
		})
	}
	return ch, cancel
}

// Publish delivers the event to every matching subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, sub := range h.subs {
		if sub.table != "" && sub.table != ev.Table {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// subscriber is not keeping up, drop the event
		}
	}
}

// Close terminates all subscriptions. Further Publish calls are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
