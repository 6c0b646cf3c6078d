package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SmitUplenchwar2687/Retrace/internal/replay"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev tool.
	},
}

// Message is what the hub sends to dashboard clients.
type Message struct {
	Type  string           `json:"type"` // "state", "timeline" or "error"
	State *replay.Snapshot `json:"state,omitempty"`
	Name  string           `json:"name,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Command is a transport request from a client.
type Command struct {
	Op       string  `json:"op"` // play, pause, toggle, stop, seek
	Fraction float64 `json:"fraction,omitempty"`
}

// CommandHandler applies client commands and reports the transport state.
type CommandHandler interface {
	Handle(Command) (replay.Snapshot, error)
	Snapshot() replay.Snapshot
}

// Hub manages WebSocket clients. It broadcasts transport state and feeds
// client commands to its handler.
type Hub struct {
	mu      sync.Mutex // serializes writes; gorilla allows one writer per conn
	clients map[*websocket.Conn]bool
	handler CommandHandler
	logger  *log.Logger
}

// NewHub creates a new WebSocket hub. A nil handler makes the hub
// broadcast-only.
func NewHub(handler CommandHandler, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		handler: handler,
		logger:  logger,
	}
}

// HandleWebSocket upgrades the HTTP connection, registers the client and
// sends it the current transport state.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[server] websocket upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	if h.handler != nil {
		snap := h.handler.Snapshot()
		h.writeLocked(conn, Message{Type: "state", State: &snap})
	}
	h.mu.Unlock()

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if h.handler == nil {
			continue
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.send(conn, Message{Type: "error", Error: "invalid command: " + err.Error()})
			continue
		}
		// The handler broadcasts the resulting state to every client.
		if _, err := h.handler.Handle(cmd); err != nil {
			h.send(conn, Message{Type: "error", Error: err.Error()})
		}
	}
}

// Broadcast sends msg to all connected WebSocket clients.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		h.writeLocked(conn, msg)
	}
}

func (h *Hub) send(conn *websocket.Conn, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writeLocked(conn, msg)
}

func (h *Hub) writeLocked(conn *websocket.Conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Printf("[server] websocket marshal error: %v", err)
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Printf("[server] websocket write error: %v", err)
		conn.Close()
		// Don't delete here; the read goroutine will clean up.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
