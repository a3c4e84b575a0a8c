package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweeney/taiko-sensor/internal/status"
)

const (
	// clientSendBuf is the per-client outbound queue. A client that falls
	// this far behind is disconnected rather than allowed to stall the
	// broadcaster.
	clientSendBuf = 32

	writeTimeout = 5 * time.Second
)

// envelope is the wire format for live-feed messages: {type, ts, data}.
type envelope struct {
	Type string      `json:"type"`
	Ts   time.Time   `json:"ts"`
	Data interface{} `json:"data,omitempty"`
}

// HitData is the `data` payload for "hit" messages.
type HitData struct {
	Button int     `json:"button"`
	Key    string  `json:"key"`
	Value  float64 `json:"value"`
}

// ReleaseData is the `data` payload for "release" messages.
type ReleaseData struct {
	Button int `json:"button"`
}

// Hub fans live events out to connected websocket clients. Broadcast is
// called from the run loop; each client has its own write pump so one slow
// browser cannot block detection.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// Broadcast serializes one envelope and queues it to every client.
// Clients whose queue is full are dropped.
func (h *Hub) Broadcast(msgType string, at time.Time, data interface{}) {
	frame, err := json.Marshal(envelope{Type: msgType, Ts: at, Data: data})
	if err != nil {
		log.Printf("ws: marshal %s: %v", msgType, err)
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			// Slow client: closing the channel makes its write pump exit
			// and close the connection.
			delete(h.clients, c)
			close(c.send)
		}
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The page is served from the same host; no cross-origin callers.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleLive upgrades the connection, sends a status snapshot and streams
// events until the client goes away.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSendBuf)}

	// Initial snapshot so a fresh page shows current state immediately.
	snap := s.tracker.Snapshot()
	init, err := json.Marshal(envelope{Type: "state_init", Ts: snap.Now, Data: status.Build(snap, "", "").Status})
	if err == nil {
		c.send <- init
	}

	s.hub.mu.Lock()
	s.hub.clients[c] = struct{}{}
	s.hub.mu.Unlock()

	go c.writePump()
	go c.readPump(s.hub)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	// Channel closed by the hub: tell the client before hanging up.
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "too slow"))
}

// readPump discards inbound messages (the feed is one-way) and unregisters
// the client when the connection dies.
func (c *client) readPump(h *Hub) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}
