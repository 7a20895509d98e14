package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Live feed message types pushed over the match topic.
const (
	WSEventLogged   = "event_logged"
	WSEventEdited   = "event_edited"
	WSEventDeleted  = "event_deleted"
	WSStatsUpdated  = "stats_updated"
	WSClockUpdated  = "clock_updated"
	WSMatchFinished = "match_finished"
)

// MatchTopic is the subscription topic for one match's live feed.
func MatchTopic(matchID string) string {
	return fmt.Sprintf("match:%s", matchID)
}

type WebSocketHub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

type Client struct {
	hub      *WebSocketHub
	conn     *websocket.Conn
	send     chan []byte
	clientID string
	topics   map[string]bool
}

type WebSocketMessage struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type Subscription struct {
	Action string   `json:"action"` // "subscribe" or "unsubscribe"
	Topics []string `json:"topics"`
}

func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logrus.Infof("Client registered: client_id=%s", client.clientID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.mu.Unlock()
				logrus.Infof("Client unregistered: client_id=%s", client.clientID)
			} else {
				h.mu.Unlock()
			}
		}
	}
}

// Register adds a new client to the hub
func (h *WebSocketHub) Register(client *Client) {
	h.register <- client
}

func (h *WebSocketHub) BroadcastToTopic(topic string, messageType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	message := WebSocketMessage{
		Type:      messageType,
		Topic:     topic,
		Data:      jsonData,
		Timestamp: time.Now().UTC(),
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.IsSubscribedTo(topic) {
			select {
			case client.send <- messageBytes:
			default:
				// Skip if client's buffer is full
			}
		}
	}

	return nil
}

// BroadcastMatch pushes a typed message to every viewer following a
// match.
func (h *WebSocketHub) BroadcastMatch(matchID string, messageType string, data interface{}) {
	if err := h.BroadcastToTopic(MatchTopic(matchID), messageType, data); err != nil {
		logrus.Warnf("Failed to broadcast %s for match %s: %v", messageType, matchID, err)
	}
}

func NewClient(hub *WebSocketHub, conn *websocket.Conn, clientID string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		clientID: clientID,
		topics:   make(map[string]bool),
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var sub Subscription
		err := c.conn.ReadJSON(&sub)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Errorf("WebSocket error: %v", err)
			}
			break
		}

		// Handle subscription changes
		if sub.Action == "subscribe" {
			for _, topic := range sub.Topics {
				c.topics[topic] = true
			}
		} else if sub.Action == "unsubscribe" {
			for _, topic := range sub.Topics {
				delete(c.topics, topic)
			}
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) IsSubscribedTo(topic string) bool {
	return c.topics[topic] || c.topics["*"] // "*" subscribes to all topics
}
