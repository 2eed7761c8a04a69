package rental_api_client

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ciberteca/rental/go/internal/events"
)

// UpdatesChannel is one tab's persistent connection to /ws/updates/.
// Opened once; a closed channel is logged and left closed, so the tab
// loses realtime sync until it reconnects from scratch.
type UpdatesChannel struct {
	conn *websocket.Conn

	mu     sync.Mutex // guards writes; gorilla allows one concurrent writer
	msgs   chan events.UpdateMessage
	closed bool
}

// DialUpdates opens the updates socket against the given server origin
// (e.g. "http://localhost:8080") and starts the read loop.
func DialUpdates(origin string) (*UpdatesChannel, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = UpdatesSocketEndpoint

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial updates socket: %w", err)
	}

	ch := &UpdatesChannel{
		conn: conn,
		msgs: make(chan events.UpdateMessage, 16),
	}
	go ch.readLoop()
	return ch, nil
}

// Messages returns the inbound update stream. The channel is closed when
// the socket drops.
func (c *UpdatesChannel) Messages() <-chan events.UpdateMessage {
	return c.msgs
}

// Send broadcasts a local mutation to the other clients.
func (c *UpdatesChannel) Send(msg events.UpdateMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("updates socket is closed")
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send update: %w", err)
	}
	return nil
}

// Close shuts the socket down.
func (c *UpdatesChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *UpdatesChannel) readLoop() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		c.conn.Close()
		close(c.msgs)
	}()

	for {
		var msg events.UpdateMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			// No reconnect: the tab stays desynced until reloaded.
			log.Error().Err(err).Msg("updates socket closed unexpectedly")
			return
		}
		c.msgs <- msg
	}
}
