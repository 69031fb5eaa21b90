package services

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now (should be restricted in production)
	},
}

// WSClient represents one websocket subscriber to a draft session.
type WSClient struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *WebSocketHub
}

// WebSocketHub broadcasts draft events (picks, completion) to session
// subscribers.
type WebSocketHub struct {
	clients        map[*WSClient]bool
	sessionClients map[string][]*WSClient
	broadcast      chan sessionMessage
	register       chan *WSClient
	unregister     chan *WSClient
	logger         *logrus.Logger
	mutex          sync.RWMutex
}

type sessionMessage struct {
	sessionID string
	payload   []byte
}

// DraftEvent is the wire format for broadcast draft updates.
type DraftEvent struct {
	Type      string      `json:"type"` // "pick_applied" | "draft_complete"
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data,omitempty"`
}

// NewWebSocketHub creates a hub.
func NewWebSocketHub(logger *logrus.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients:        make(map[*WSClient]bool),
		sessionClients: make(map[string][]*WSClient),
		broadcast:      make(chan sessionMessage, 256),
		register:       make(chan *WSClient),
		unregister:     make(chan *WSClient),
		logger:         logger,
	}
}

// Run starts the hub loop; call in a goroutine.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.sessionClients[client.SessionID] = append(h.sessionClients[client.SessionID], client)
			h.mutex.Unlock()

			h.logger.WithFields(logrus.Fields{
				"session_id":    client.SessionID,
				"total_clients": len(h.clients),
			}).Info("WebSocket client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)

				subscribers := h.sessionClients[client.SessionID]
				for i, c := range subscribers {
					if c == client {
						h.sessionClients[client.SessionID] = append(subscribers[:i], subscribers[i+1:]...)
						break
					}
				}
				if len(h.sessionClients[client.SessionID]) == 0 {
					delete(h.sessionClients, client.SessionID)
				}
			}
			h.mutex.Unlock()

			h.logger.WithFields(logrus.Fields{
				"session_id":    client.SessionID,
				"total_clients": len(h.clients),
			}).Info("WebSocket client disconnected")

		case message := <-h.broadcast:
			h.mutex.RLock()
			for _, client := range h.sessionClients[message.sessionID] {
				select {
				case client.Send <- message.payload:
				default:
					// Slow consumer; drop the event rather than block the hub.
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastEvent pushes an event to every subscriber of the session.
func (h *WebSocketHub) BroadcastEvent(event DraftEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorf("Failed to marshal draft event: %v", err)
		return
	}
	h.broadcast <- sessionMessage{sessionID: event.SessionID, payload: payload}
}

// HandleWebSocket upgrades a request and subscribes it to the session in
// the route parameter.
func (h *WebSocketHub) HandleWebSocket(c *gin.Context) {
	sessionID := c.Param("id")
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &WSClient{
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, 64),
		Hub:       h,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *WSClient) writePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
