// Package transport terminates WebSocket connections and adapts them to the
// capability surface the core consumes.
package transport

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"talk-it/errors"
)

const closeGracePeriod = time.Second

// Conn wraps a gorilla websocket connection. Writes are serialized with a
// mutex because gorilla allows only one concurrent writer per connection.
type Conn struct {
	mu     sync.Mutex
	ws     *websocket.Conn
	closed bool
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.ErrConnClosed
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

// Close sends a close frame with the given status code and reason, then
// tears the connection down. Subsequent calls are no-ops.
func (c *Conn) Close(statusCode int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	deadline := time.Now().Add(closeGracePeriod)
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(statusCode, reason), deadline)
	return c.ws.Close()
}

func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// read blocks for the next text frame.
func (c *Conn) read() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	return data, err
}

// ExtractIP pulls the host part of a remote address, normalizing the IPv6
// loopback so local clients group under one source. Unparseable input that
// is not already a bare host yields "unknown".
func ExtractIP(remoteAddr string) string {
	if remoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	if host == "::1" || host == "0:0:0:0:0:0:0:1" {
		return "127.0.0.1"
	}
	return host
}
