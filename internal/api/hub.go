package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/pkg/logger"
)

const (
	writeWait     = 10 * time.Second
	clientBufSize = 4
)

// Hub fans completed runs out to websocket subscribers. Slow clients are
// dropped rather than allowed to block the broadcast path.
type Hub struct {
	log      *logger.Logger
	upgrader websocket.Upgrader

	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	clients    map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub builds the broadcast hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 8),
		clients:    make(map[*client]bool),
	}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// client too slow, drop it
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// Broadcast queues a run for delivery to every connected client.
func (h *Hub) Broadcast(result *contracts.RunResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		h.log.WithError(err).Error("encoding broadcast payload")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.log.Warn("broadcast queue full, dropping run")
	}
}

// HandleWS upgrades the connection and registers the client.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBufSize)}
	h.register <- c

	go c.writeLoop()
	go c.readLoop(h)
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readLoop drains client frames so pings and close frames are processed.
func (c *client) readLoop(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
