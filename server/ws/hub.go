// Package ws streams change events to browsers and CLI watchers over
// Server-Sent Events (SSE).
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GoCodeAlone/timetable/comms"
)

// clientBuffer is how many frames a slow client may fall behind before
// frames are dropped for it.
const clientBuffer = 64

// frame is one encoded SSE message.
type frame struct {
	id    string
	event string
	data  []byte
}

// Hub fans change events out to every connected SSE client.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan frame]struct{}
	logger  *zap.Logger
}

// NewHub creates a Hub ready to accept connections.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[chan frame]struct{}),
		logger:  logger,
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Forward is a comms.Handler that sends ev to every client as an SSE message
// named after the event type.
func (h *Hub) Forward(_ context.Context, ev *comms.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	f := frame{id: ev.ID, event: string(ev.Type), data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- f:
		default:
			h.logger.Debug("dropping event for slow client",
				zap.String("type", f.event), zap.String("subject", ev.Subject))
		}
	}
	return nil
}

// ServeSSE streams events to one client until it disconnects.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := make(chan frame, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("sse client connected", zap.String("remote", r.RemoteAddr))

	defer func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
		h.logger.Debug("sse client disconnected", zap.String("remote", r.RemoteAddr))
	}()

	writeFrame(w, frame{event: "connected", data: []byte("{}")})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case f := <-ch:
			writeFrame(w, f)
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, f frame) {
	var b strings.Builder
	if f.id != "" {
		fmt.Fprintf(&b, "id: %s\n", f.id)
	}
	fmt.Fprintf(&b, "event: %s\n", f.event)
	// A data line may not contain a newline.
	for _, line := range strings.Split(string(f.data), "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, _ = w.Write([]byte(b.String()))
}
