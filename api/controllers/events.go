package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lelikelen/dashboard-backend/api/responses"
	"github.com/lelikelen/dashboard-backend/pkg/changefeed"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// StreamEvents relays table-change notifications to the client as
// server-sent events. An optional ?table= query narrows the stream to one
// table.
func StreamEvents(hub *changefeed.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "change feed unavailable"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		events, cancel := hub.Subscribe(r.URL.Query().Get("table"))
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
