package console

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps a WebSocket connection as a line-oriented stream.
type client struct {
	conn    *websocket.Conn
	readBuf []string   // lines left over from a multi-line message
	mu      sync.Mutex // protects readBuf
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:    conn,
		readBuf: make([]string, 0),
	}
}

// ReadLine returns the next non-empty line. A message holding several
// lines is split and returned one line at a time.
func (c *client) ReadLine() (string, error) {
	c.mu.Lock()
	if len(c.readBuf) > 0 {
		line := c.readBuf[0]
		c.readBuf = c.readBuf[1:]
		c.mu.Unlock()
		return line, nil
	}
	c.mu.Unlock()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}

		lines := strings.Split(string(message), "\n")
		filtered := make([]string, 0, len(lines))
		for _, line := range lines {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				filtered = append(filtered, trimmed)
			}
		}
		if len(filtered) == 0 {
			continue
		}

		c.mu.Lock()
		c.readBuf = append(c.readBuf, filtered[1:]...)
		c.mu.Unlock()
		return filtered[0], nil
	}
}

// WriteLine sends one text message.
func (c *client) WriteLine(message string) error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// Close closes the WebSocket connection.
func (c *client) Close() error {
	return c.conn.Close()
}
