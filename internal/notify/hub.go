// internal/notify/hub.go
package notify

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Notifier pushes fire-and-forget events to a user's connected clients.
// Delivery is best effort only; nothing in the system waits on it.
type Notifier interface {
	NotifyUser(userID int, eventType string, data any)
}

// Event is the wire envelope sent to clients.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

type client struct {
	conn   *websocket.Conn
	userID int
	send   chan []byte
}

// Hub tracks connected websocket clients keyed by user.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades /ws?userId=N connections and registers the client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(r.URL.Query().Get("userId"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, userID: userID, send: make(chan []byte, 16)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	logrus.Infof("websocket connected for user %d", userID)

	welcome, _ := json.Marshal(Event{
		Type:      "connection",
		Message:   "Connected to notification service",
		Timestamp: time.Now().Format(time.RFC3339),
	})
	c.send <- welcome

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		// Keep-alive: answer pings with pongs, ignore everything else.
		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			pong, _ := json.Marshal(Event{Type: "pong", Timestamp: time.Now().Format(time.RFC3339)})
			select {
			case c.send <- pong:
			default:
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	if ok {
		close(c.send)
		c.conn.Close()
		logrus.Infof("websocket disconnected for user %d", c.userID)
	}
}

// NotifyUser sends the event to every open connection of the user. Slow or
// gone clients are skipped; no delivery guarantee.
func (h *Hub) NotifyUser(userID int, eventType string, data any) {
	msg, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for c := range h.clients {
		if c.userID != userID {
			continue
		}
		select {
		case c.send <- msg:
			sent++
		default:
		}
	}
	logrus.Debugf("sent %s notification to %d client(s) for user %d", eventType, sent, userID)
}

// ConnectedCount reports the number of open client connections.
func (h *Hub) ConnectedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

var _ Notifier = (*Hub)(nil)
