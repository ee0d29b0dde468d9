package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tahcohcat/eventquest-web/internal/logger"
)

// Notification is pushed to the dashboard, e.g. the first-registration
// celebration.
type Notification struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

type envelope struct {
	sessionID string
	message   []byte
}

// Hub fans notifications out to the websocket clients of a session. All
// client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[string]map[*Client]bool
	direct     chan envelope
	register   chan *Client
	unregister chan *Client
	upgrader   websocket.Upgrader

	// Clients silent for pongWait are dropped. pingPeriod must be shorter.
	pongWait   time.Duration
	pingPeriod time.Duration

	log *logger.Log
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
}

// NewHub builds a hub accepting connections from allowedOrigins in addition
// to same-origin requests.
func NewHub(allowedOrigins []string) *Hub {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		direct:     make(chan envelope, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin] || origin == "http://"+r.Host || origin == "https://"+r.Host
			},
		},
		pongWait:   pongWait,
		pingPeriod: pongWait * 9 / 10,
		log:        logger.New(),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.sessionID] == nil {
				h.clients[client.sessionID] = make(map[*Client]bool)
			}
			h.clients[client.sessionID][client] = true
			h.log.WithField("session", client.sessionID).Debug("websocket client connected")

		case client := <-h.unregister:
			h.remove(client)

		case env := <-h.direct:
			for client := range h.clients[env.sessionID] {
				select {
				case client.send <- env.message:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.sessionID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.sessionID)
	}
	h.log.WithField("session", client.sessionID).Debug("websocket client disconnected")
}

// Notify queues n for every client of sessionID. Sessions without a
// connected client drop the notification.
func (h *Hub) Notify(sessionID string, n Notification) error {
	msg, err := json.Marshal(n)
	if err != nil {
		return err
	}
	h.direct <- envelope{sessionID: sessionID, message: msg}
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("websocket read error")
			}
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.WithError(err).Warn("websocket write error")
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

// ServeWS upgrades the request and attaches the connection to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade error")
		return
	}

	client := &Client{hub: h, conn: conn, sessionID: sessionID, send: make(chan []byte, 256)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
