// Package events pushes change notifications to connected pages so the
// agenda view reloads when a booking is created or deleted elsewhere.
package events

import (
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/lucasmonteiro/agendei/pkg/logging"
)

// TypeAppointmentsChanged tells listeners to reload their appointment data.
const TypeAppointmentsChanged = "appointments_changed"

// Message is the wire format of a hub event.
type Message struct {
	Type string `json:"type"`
	At   string `json:"at"`
}

// Hub tracks connected websocket clients and broadcasts events to them.
type Hub struct {
	logger *logging.Logger
	now    func() time.Time

	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger: logger,
		now:    time.Now,
		conns:  make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the websocket endpoint for /ws/events.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

// AppointmentsChanged broadcasts a change notification to every client.
func (h *Hub) AppointmentsChanged() {
	h.broadcast(Message{
		Type: TypeAppointmentsChanged,
		At:   h.now().Format(time.RFC3339),
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) serve(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("events client connected", "clients", h.ClientCount())

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Drain until the client goes away; inbound payloads are ignored.
	for {
		var discard string
		if err := websocket.Message.Receive(conn, &discard); err != nil {
			if err != io.EOF {
				h.logger.Debug("events client read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) broadcast(msg Message) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := websocket.JSON.Send(conn, msg); err != nil {
			h.logger.Debug("events broadcast failed, dropping client", "error", err)
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()
			conn.Close()
		}
	}
}
