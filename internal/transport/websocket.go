// Package transport connects to the event server over a WebSocket.
package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dasgefolge/sil/internal/errors"
	"github.com/dasgefolge/sil/internal/protocol"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024

	inboundBuffer = 16
)

// Inbound is one item of the inbound stream: a message or a read failure.
type Inbound struct {
	Message protocol.ServerMessage
	Err     error
}

// Conn is a live connection to the event server. The inbound channel is
// closed when the peer ends the stream.
type Conn interface {
	Send(ctx context.Context, message protocol.ClientMessage) error
	Inbound() <-chan Inbound
	Close() error
}

// Dialer opens connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebSocketDialer dials gorilla WebSocket connections.
type WebSocketDialer struct {
	dialer *websocket.Dialer
	header http.Header
	logger *zerolog.Logger
}

// NewWebSocketDialer creates a dialer with default handshake settings.
func NewWebSocketDialer(logger *zerolog.Logger) *WebSocketDialer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &WebSocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 30 * time.Second,
		},
		header: http.Header{},
		logger: logger,
	}
}

// Dial connects to url and starts reading inbound messages.
func (d *WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	ws, resp, err := d.dialer.DialContext(ctx, url, d.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, &errors.ConnectionError{URL: url, Err: err}
	}
	ws.SetReadLimit(maxMessageSize)

	conn := &wsConn{
		ws:      ws,
		inbound: make(chan Inbound, inboundBuffer),
		done:    make(chan struct{}),
		logger:  d.logger,
	}
	go conn.readPump()

	d.logger.Info().Str("url", url).Msg("connected to event server")
	return conn, nil
}

type wsConn struct {
	ws        *websocket.Conn
	inbound   chan Inbound
	done      chan struct{}
	writeMu   sync.Mutex
	closeOnce sync.Once
	logger    *zerolog.Logger
}

func (c *wsConn) Inbound() <-chan Inbound {
	return c.inbound
}

func (c *wsConn) Send(ctx context.Context, message protocol.ClientMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(writeWait)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = c.ws.SetWriteDeadline(deadline)
	if err := c.ws.WriteJSON(message); err != nil {
		return &errors.WriteError{Err: err}
	}
	return nil
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

// readPump forwards messages until the stream ends. A clean close ends the
// inbound channel without an error item.
func (c *wsConn) readPump() {
	defer close(c.inbound)

	for {
		var message protocol.ServerMessage
		err := c.ws.ReadJSON(&message)
		if err != nil {
			if isEndOfStream(err) {
				c.logger.Debug().Err(err).Msg("event server closed the stream")
				return
			}
			c.deliver(Inbound{Err: &errors.ReadError{Err: err}})
			return
		}
		if err := message.Validate(); err != nil {
			c.deliver(Inbound{Err: &errors.ReadError{Err: err}})
			return
		}
		if !c.deliver(Inbound{Message: message}) {
			return
		}
	}
}

func (c *wsConn) deliver(item Inbound) bool {
	select {
	case c.inbound <- item:
		return true
	case <-c.done:
		return false
	}
}

// isEndOfStream reports whether the peer ended the connection. A truncated
// JSON frame surfaces as io.ErrUnexpectedEOF and is a read error, not an end.
func isEndOfStream(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
	)
}
