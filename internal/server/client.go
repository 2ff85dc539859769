package server

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// wsClient wraps a WebSocket connection as a line-oriented client.
type wsClient struct {
	conn    *websocket.Conn
	readBuf []string   // buffered lines from a multi-line message
	mu      sync.Mutex // protects readBuf
	writeMu sync.Mutex // serializes writes
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{conn: conn}
}

// ReadLine reads one non-empty line from the connection, buffering the
// rest of a multi-line message for subsequent calls.
func (c *wsClient) ReadLine() (string, error) {
	c.mu.Lock()
	if len(c.readBuf) > 0 {
		line := c.readBuf[0]
		c.readBuf = c.readBuf[1:]
		c.mu.Unlock()
		return line, nil
	}
	c.mu.Unlock()

	_, message, err := c.conn.ReadMessage()
	if err != nil {
		return "", err
	}

	var lines []string
	for _, line := range strings.Split(string(message), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return c.ReadLine()
	}

	c.mu.Lock()
	c.readBuf = append(c.readBuf, lines[1:]...)
	c.mu.Unlock()
	return lines[0], nil
}

// WriteLine sends one text message to the client.
func (c *wsClient) WriteLine(message string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

func (c *wsClient) Close() error {
	return c.conn.Close()
}

func (c *wsClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
