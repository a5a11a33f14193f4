package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/yourusername/swayfader/internal/models"
)

// Connection manages one Unix domain socket connection to Sway
type Connection struct {
	socketPath string
	conn       net.Conn
	reader     *bufio.Reader
	timeout    time.Duration

	// Serializes request/reply pairs; the fade loop and the event
	// handler both issue commands on the same socket
	mu sync.Mutex
}

// NewConnection creates a new connection instance
func NewConnection(socketPath string, timeout time.Duration) *Connection {
	return &Connection{
		socketPath: socketPath,
		timeout:    timeout,
	}
}

// Connect establishes the Unix domain socket connection
func (c *Connection) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Connection) connectLocked() error {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to socket %s: %w", c.socketPath, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Close closes the connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// SendRequest sends a request and waits for the reply of the same type.
// Events that arrive on a subscribed socket are skipped.
func (c *Connection) SendRequest(ctx context.Context, msgType models.MessageType, payload []byte) (*models.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connectLocked(); err != nil {
			return nil, err
		}
	}

	// Apply timeout if not already set
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("failed to set deadline: %w", err)
		}
	}

	req := &models.Message{Type: msgType, Payload: payload}
	if err := req.Encode(c.conn); err != nil {
		c.dropLocked()
		return nil, err
	}

	for {
		resp, err := models.ReadMessage(c.reader)
		if err != nil {
			c.dropLocked()
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled or timed out: %w", ctx.Err())
			}
			return nil, fmt.Errorf("failed to read reply: %w", err)
		}
		if resp.Type.IsEvent() {
			continue
		}
		if resp.Type != msgType {
			return nil, fmt.Errorf("expected reply type %d, got %d", msgType, resp.Type)
		}
		return resp, nil
	}
}

// stream hands the buffered reader to a subscriber. After this only the
// subscriber reads from the socket; Close still interrupts it.
func (c *Connection) stream() (*bufio.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, fmt.Errorf("connection not established")
	}
	if err := c.conn.SetDeadline(time.Time{}); err != nil {
		return nil, fmt.Errorf("failed to clear deadline: %w", err)
	}
	return c.reader, nil
}

// dropLocked closes a connection left in an unknown state so the next
// request redials
func (c *Connection) dropLocked() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		c.reader = nil
	}
}
