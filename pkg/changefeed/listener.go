package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// Channel is the Postgres NOTIFY channel the trigger function publishes on.
const Channel = "table_changes"

const (
	minReconnectInterval = time.Second
	maxReconnectInterval = 30 * time.Second
	pingInterval         = 90 * time.Second
)

// Listener bridges Postgres LISTEN/NOTIFY into a Hub.
type Listener struct {
	pql  *pq.Listener
	hub  *Hub
	logg *logger.Logger
	done chan struct{}
}

// NewListener opens a dedicated LISTEN connection using dsn and subscribes to
// the notification channel. Events flow into hub once Run is started.
func NewListener(dsn string, hub *Hub, logg *logger.Logger) (*Listener, error) {
	l := &Listener{hub: hub, logg: logg, done: make(chan struct{})}

	l.pql = pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, l.onConnEvent)
	if err := l.pql.Listen(Channel); err != nil {
		l.pql.Close()
		return nil, fmt.Errorf("listen on %q: %w", Channel, err)
	}
	return l, nil
}

func (l *Listener) onConnEvent(ev pq.ListenerEventType, err error) {
	if l.logg == nil {
		return
	}
	ctx := context.Background()
	switch ev {
	case pq.ListenerEventConnected, pq.ListenerEventReconnected:
		l.logg.Info(ctx, "changefeed listener connected")
	case pq.ListenerEventDisconnected:
		l.logg.Warn(ctx, fmt.Sprintf("changefeed listener disconnected: %v", err))
	case pq.ListenerEventConnectionAttemptFailed:
		l.logg.Warn(ctx, fmt.Sprintf("changefeed listener reconnect failed: %v", err))
	}
}

// Run consumes notifications until ctx is cancelled or Close is called.
// Malformed payloads are logged and skipped.
func (l *Listener) Run(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case n, ok := <-l.pql.Notify:
			if !ok {
				return
			}
			if n == nil {
				// reconnect marker, a refetch-on-next-event covers the gap
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
				if l.logg != nil {
					l.logg.Warn(ctx, fmt.Sprintf("changefeed payload rejected: %v", err))
				}
				continue
			}
			l.hub.Publish(ev)
		case <-ticker.C:
			if err := l.pql.Ping(); err != nil && l.logg != nil {
				l.logg.Warn(ctx, fmt.Sprintf("changefeed ping failed: %v", err))
			}
		}
	}
}

// Close tears down the LISTEN connection.
func (l *Listener) Close() error {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	return l.pql.Close()
}
