// Package ws runs the live order feed over gorilla/websocket. School admins
// connect to /ws/orders and receive order events for their own school only;
// each client is registered under a topic (the school ID) and broadcasts are
// scoped to that topic.
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/boofino/boofino/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default. The server restricts this to the
	// storefront origin at boot.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Client is a single connected feed subscriber.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	topic string
	send  chan []byte
}

// readPump drains the connection so ping/pong keepalive works. The feed is
// one-way; inbound frames are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			break
		}
	}
}

// writePump pumps queued messages to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type outbound struct {
	topic string
	data  []byte
}

// Hub maintains active subscribers grouped by topic.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub. Call hub.Run() in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub event loop. Must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.topic] == nil {
				h.clients[client.topic] = make(map[*Client]bool)
			}
			h.clients[client.topic][client] = true
			logger.Info("ws: client connected", "topic", client.topic, "total", len(h.clients[client.topic]))

		case client := <-h.unregister:
			if set, ok := h.clients[client.topic]; ok && set[client] {
				delete(set, client)
				close(client.send)
				if len(set) == 0 {
					delete(h.clients, client.topic)
				}
				logger.Info("ws: client disconnected", "topic", client.topic)
			}

		case msg := <-h.broadcast:
			for client := range h.clients[msg.topic] {
				select {
				case client.send <- msg.data:
				default:
					close(client.send)
					delete(h.clients[msg.topic], client)
				}
			}
		}
	}
}

// Broadcast queues data for every subscriber of topic.
func (h *Hub) Broadcast(topic string, data []byte) {
	select {
	case h.broadcast <- outbound{topic: topic, data: data}:
	default:
		logger.Warn("ws: broadcast buffer full, dropping message", "topic", topic)
	}
}

// Upgrade upgrades the HTTP connection and subscribes the client to topic.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, topic string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, topic: topic, send: make(chan []byte, 256)}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
