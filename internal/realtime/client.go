package realtime

import (
	"time"

	"github.com/sfines/sdd-process-example/internal/model"
)

// Buffer size for outgoing messages
const sendBufferSize = 256

// Client is one subscription to a room hub. A websocket connection holds one
// per joined room; an SSE stream is a single client.
type Client struct {
	hub         *Hub
	playerID    model.PlayerID
	send        chan Message
	connectedAt time.Time
}

// NewClient creates a new client for hub
func NewClient(hub *Hub, playerID model.PlayerID) *Client {
	return &Client{
		hub:         hub,
		playerID:    playerID,
		send:        make(chan Message, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Messages returns the channel the hub delivers to. It is closed when the
// client is unregistered or the hub shuts down.
func (c *Client) Messages() <-chan Message {
	return c.send
}

// PlayerID returns the player this client belongs to
func (c *Client) PlayerID() model.PlayerID {
	return c.playerID
}
