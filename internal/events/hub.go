package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"launchcontrol/internal/engine"
)

const (
	writeWait      = 10 * time.Second
	clientSendSize = 32
)

// Hub broadcasts ledger events to connected WebSocket clients. Slow clients
// are dropped rather than allowed to back-pressure the write path.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan []byte)}
}

// Register attaches a connection and starts its write pump. The caller keeps
// the read side to detect disconnects.
func (h *Hub) Register(conn *websocket.Conn) {
	send := make(chan []byte, clientSendSize)

	h.mu.Lock()
	h.clients[conn] = send
	count := len(h.clients)
	h.mu.Unlock()

	log.WithFields(log.Fields{
		"clients": count,
	}).Info("WebSocket client connected")

	go func() {
		defer h.Unregister(conn)
		for msg := range send {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, []byte{})
	}()
}

// Unregister detaches a connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	send, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	close(send)
	conn.Close()
	log.WithFields(log.Fields{
		"clients": count,
	}).Info("WebSocket client disconnected")
}

// Emit implements engine.Sink: each event is serialized once and queued to
// every connected client.
func (h *Hub) Emit(ev engine.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.WithFields(log.Fields{
			"kind":  ev.Kind,
			"error": err.Error(),
		}).Error("Failed to marshal ledger event")
		return
	}

	h.mu.RLock()
	var slow []*websocket.Conn
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			slow = append(slow, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range slow {
		log.Warn("Dropping slow WebSocket client")
		h.Unregister(conn)
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
