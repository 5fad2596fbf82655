package service

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// Conn is the part of a WebSocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Connections holds the live sockets of one game, keyed by player ID.
type Connections struct {
	mu          sync.Mutex
	connections map[string]Conn
	logger      *zap.Logger
}

func NewConnections(logger *zap.Logger) *Connections {
	return &Connections{
		connections: make(map[string]Conn),
		logger:      logger,
	}
}

// Register adds conn for playerID. A player that already has a connection
// keeps it and the new one is closed; the return value reports whether conn
// was kept.
func (c *Connections) Register(playerID string, conn Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.connections[playerID]; exists {
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		c.logger.Info("rejected duplicate connection", zap.String("player_id", playerID))
		return false
	}
	c.connections[playerID] = conn
	return true
}

// Unregister drops the connection of playerID if it is still conn.
func (c *Connections) Unregister(playerID string, conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, exists := c.connections[playerID]; exists && current == conn {
		delete(c.connections, playerID)
	}
}

func (c *Connections) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.connections)
}

// Send writes v to conn alone, serialized with broadcasts.
func (c *Connections) Send(conn Conn, v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return conn.WriteJSON(v)
}

// Broadcast writes v to every connection. Connections that fail are dropped.
func (c *Connections) Broadcast(v interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for playerID, conn := range c.connections {
		if err := conn.WriteJSON(v); err != nil {
			c.logger.Warn("dropping connection after failed write",
				zap.String("player_id", playerID),
				zap.Error(err),
			)
			delete(c.connections, playerID)
		}
	}
}
