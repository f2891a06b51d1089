// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
)

// WebSocketClient represents a connected WebSocket client
type WebSocketClient struct {
	conn          *websocket.Conn
	send          chan []byte
	natsConn      *nats.Conn
	eventsTopic   string
	subscriptions []*nats.Subscription
	logger        *slog.Logger
	closeOnce     sync.Once
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
	}
}

// WebSocketUpgrader is used to upgrade HTTP connections to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// AnalysisWebSocketHandler streams completed snapshot events to clients. A
// client may also send {"type": "refresh"} to request a new analysis run.
func AnalysisWebSocketHandler(natsConn *nats.Conn, eventsTopic string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("error upgrading to websocket", "error", err)
			return
		}

		client := &WebSocketClient{
			conn:        conn,
			send:        make(chan []byte, 16),
			natsConn:    natsConn,
			eventsTopic: eventsTopic,
			logger:      logger,
		}

		go client.writePump()
		go client.readPump()

		if err := client.subscribeToEvents(); err != nil {
			logger.Error("error subscribing to analysis events", "error", err)
			client.closeConnection()
			return
		}

		welcome := map[string]interface{}{
			"type":  "welcome",
			"topic": eventsTopic,
			"time":  time.Now().UTC(),
		}
		welcomeJSON, _ := json.Marshal(welcome)
		client.send <- welcomeJSON

		logger.Debug("websocket client connected", "remote", r.RemoteAddr)
	}
}

// readPump pumps messages from the WebSocket connection to NATS
func (c *WebSocketClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.closeConnection()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.processIncomingMessage(message)
	}
}

// writePump pumps messages from NATS to the WebSocket connection
func (c *WebSocketClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush queued messages into the same frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processIncomingMessage processes an incoming WebSocket message
func (c *WebSocketClient) processIncomingMessage(message []byte) {
	var msg map[string]interface{}
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("unparseable websocket message", "error", err)
		return
	}

	msgType, ok := msg["type"].(string)
	if !ok {
		c.logger.Warn("websocket message missing type")
		return
	}

	switch msgType {
	case "refresh":
		c.handleRefreshRequest()

	default:
		c.logger.Warn("unknown websocket message type", "type", msgType)
	}
}

// handleRefreshRequest asks the analysis manager for a new run
func (c *WebSocketClient) handleRefreshRequest() {
	subject := fmt.Sprintf("%s.refresh.requested", c.eventsTopic)
	if err := c.natsConn.Publish(subject, nil); err != nil {
		c.logger.Error("error publishing refresh request", "error", err)
	}
}

// subscribeToEvents forwards completed snapshot events to the client
func (c *WebSocketClient) subscribeToEvents() error {
	subject := fmt.Sprintf("%s.snapshot.completed", c.eventsTopic)
	sub, err := c.natsConn.Subscribe(subject, func(msg *nats.Msg) {
		select {
		case c.send <- msg.Data:
		default:
			// Slow client, drop the event rather than block NATS delivery
		}
	})
	if err != nil {
		return fmt.Errorf("error subscribing to snapshot events: %w", err)
	}
	c.subscriptions = append(c.subscriptions, sub)

	return nil
}

// closeConnection closes the WebSocket connection and cleans up resources.
// Both pumps call it, so it runs once.
func (c *WebSocketClient) closeConnection() {
	c.closeOnce.Do(func() {
		for _, sub := range c.subscriptions {
			sub.Unsubscribe()
		}

		c.conn.Close()
		close(c.send)

		c.logger.Debug("websocket connection closed")
	})
}
