// Package consoleclient drives the admin console over WebSocket.
package consoleclient

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrAuthFailed is returned by Dial when the console rejects the password.
var ErrAuthFailed = errors.New("console authentication failed")

// Client is an authenticated console session.
type Client struct {
	conn     *websocket.Conn
	writeMu  sync.Mutex
	mu       sync.Mutex
	messages []string
	arrived  chan struct{}
	done     chan struct{}
	closed   bool
}

// Dial connects to a console endpoint (ws://host:port/ws) and logs in.
func Dial(url, password string, timeout time.Duration) (*Client, error) {
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, resp, err := dialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c := &Client{
		conn:    conn,
		arrived: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go c.readMessages()

	if _, err := c.waitFor(0, "Password:", timeout); err != nil {
		c.Close()
		return nil, err
	}
	mark := c.count()
	if err := c.SendCommand(password); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to send password: %w", err)
	}
	reply, err := c.waitFor(mark, "", timeout)
	if err != nil {
		c.Close()
		return nil, err
	}
	if !strings.HasPrefix(reply, "Welcome") {
		c.Close()
		return nil, ErrAuthFailed
	}
	return c, nil
}

// readMessages continuously reads messages from the server
func (c *Client) readMessages() {
	defer close(c.done)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.mu.Lock()
		c.messages = append(c.messages, string(data))
		c.mu.Unlock()
		select {
		case c.arrived <- struct{}{}:
		default:
		}
	}
}

// SendCommand sends one line to the server.
func (c *Client) SendCommand(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

// Run sends a command and returns the next reply.
func (c *Client) Run(line string, timeout time.Duration) (string, error) {
	mark := c.count()
	if err := c.SendCommand(line); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}
	return c.waitFor(mark, "", timeout)
}

// GetMessages returns all messages received so far
func (c *Client) GetMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]string, len(c.messages))
	copy(result, c.messages)
	return result
}

func (c *Client) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// waitFor returns the first message at or after index from that contains
// text. An empty text matches any message.
func (c *Client) waitFor(from int, text string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	finished := false
	for {
		c.mu.Lock()
		for _, msg := range c.messages[from:] {
			if strings.Contains(msg, text) {
				c.mu.Unlock()
				return msg, nil
			}
		}
		c.mu.Unlock()

		// the last messages may land just before the close
		if finished {
			return "", errors.New("connection closed by server")
		}
		select {
		case <-c.arrived:
		case <-c.done:
			finished = true
		case <-timer.C:
			return "", fmt.Errorf("timed out waiting for console reply after %v", timeout)
		}
	}
}

// Close ends the session politely and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	_ = c.SendCommand("quit")
	select {
	case <-c.done:
	case <-time.After(500 * time.Millisecond):
	}
	return c.conn.Close()
}
