// Package client maintains the WebSocket session with a taskpilot
// server. Connection loss is never terminal: the run loop redials
// forever with a fixed delay, surfacing status changes as events so the
// UI can show connected/disconnected state.
package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rcliao/taskpilot/internal/protocol"
)

// ErrNotConnected is returned by Send while the session is down.
var ErrNotConnected = errors.New("not connected")

// EventKind discriminates the events emitted by the run loop.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventMessage
)

// Event is one occurrence on the connection: a status change or an
// inbound envelope.
type Event struct {
	Kind EventKind
	Msg  *protocol.Inbound
	Err  error
}

type Client struct {
	url   string
	delay time.Duration
	log   zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn

	events chan Event
}

func New(url string, reconnectDelay time.Duration, log zerolog.Logger) *Client {
	return &Client{
		url:    url,
		delay:  reconnectDelay,
		log:    log,
		events: make(chan Event, 16),
	}
}

// Events is the stream the UI consumes. Closed when Run returns.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Run dials and reads until ctx is canceled. Every drop is followed by
// a redial after the fixed delay; there is no attempt limit.
func (c *Client) Run(ctx context.Context) {
	defer close(c.events)

	for {
		if err := c.connectAndRead(ctx); err != nil {
			c.log.Debug().Err(err).Msg("connection ended")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.delay):
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.emit(ctx, Event{Kind: EventDisconnected, Err: err})
		return err
	}

	c.setConn(conn)
	defer func() {
		c.setConn(nil)
		conn.Close()
	}()

	c.emit(ctx, Event{Kind: EventConnected})
	c.log.Info().Str("url", c.url).Msg("connected")

	// Unblock ReadMessage when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var in protocol.Inbound
		if err := conn.ReadJSON(&in); err != nil {
			c.emit(ctx, Event{Kind: EventDisconnected, Err: err})
			return err
		}
		c.emit(ctx, Event{Kind: EventMessage, Msg: &in})
	}
}

// Send writes one request. Returns an error when the connection is
// down; the caller may simply retry after the next EventConnected.
func (c *Client) Send(req protocol.Request) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}
	return conn.WriteJSON(req)
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) emit(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
