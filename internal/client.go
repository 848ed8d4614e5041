package internal

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one authenticated websocket connection. Id is the verified user
// identity from the handshake token, never client-supplied.
type Client struct {
	Id       string          `json:"id"`
	Username string          `json:"username"`
	Conn     *websocket.Conn `json:"-"`
	JoinedAt time.Time       `json:"joined_at"`

	Mu sync.Mutex `json:"-"`
}

// SafeWriteJSON serializes concurrent writers on the same connection.
// gorilla/websocket allows at most one in-flight writer.
func (c *Client) SafeWriteJSON(v any) error {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	return c.Conn.WriteJSON(v)
}
