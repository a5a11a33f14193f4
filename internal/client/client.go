package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/swayfader/internal/logging"
	"github.com/yourusername/swayfader/internal/models"
	"github.com/yourusername/swayfader/internal/types"
)

const (
	DefaultTimeout = 5 * time.Second
)

// DefaultSocketPath returns the Sway socket from the environment
func DefaultSocketPath() string {
	if p := os.Getenv("SWAYSOCK"); p != "" {
		return p
	}
	return os.Getenv("I3SOCK")
}

// Client is the main Sway IPC client
type Client struct {
	id         string
	socketPath string
	timeout    time.Duration
	conn       *Connection
}

// NewClient creates a new Sway IPC client
func NewClient(socketPath string, timeout time.Duration) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath()
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		id:         uuid.New().String(),
		socketPath: socketPath,
		timeout:    timeout,
		conn:       NewConnection(socketPath, timeout),
	}
}

// ID returns the identifier used to tag this client's log lines
func (c *Client) ID() string {
	return c.id
}

// Connect establishes connection to Sway
func (c *Client) Connect() error {
	if c.socketPath == "" {
		return fmt.Errorf("no socket path: set SWAYSOCK or pass --socket")
	}
	return c.conn.Connect()
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// request is a helper to send a request and get the reply payload
func (c *Client) request(ctx context.Context, msgType models.MessageType, payload []byte) ([]byte, error) {
	if c.socketPath == "" {
		return nil, fmt.Errorf("no socket path: set SWAYSOCK or pass --socket")
	}
	resp, err := c.conn.SendRequest(ctx, msgType, payload)
	if err != nil {
		return nil, err
	}
	return resp.Payload, nil
}

// RunCommand runs a Sway command and fails if any part of it failed
func (c *Client) RunCommand(ctx context.Context, command string) error {
	payload, err := c.request(ctx, models.MsgRunCommand, []byte(command))
	if err != nil {
		return err
	}

	var results []models.CommandResult
	if err := json.Unmarshal(payload, &results); err != nil {
		return fmt.Errorf("failed to parse command reply: %w", err)
	}

	var failures []string
	for _, r := range results {
		if !r.Success {
			failures = append(failures, r.Error)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("server error: %s", strings.Join(failures, "; "))
	}

	return nil
}

// SetOpacity sets the opacity of one window
func (c *Client) SetOpacity(ctx context.Context, windowID int64, opacity float64) error {
	return c.RunCommand(ctx, fmt.Sprintf("[con_id=%d] opacity %.3f", windowID, opacity))
}

// GetTree retrieves the complete layout tree
func (c *Client) GetTree(ctx context.Context) (*models.Node, error) {
	payload, err := c.request(ctx, models.MsgGetTree, nil)
	if err != nil {
		return nil, err
	}
	return models.ParseTree(payload)
}

// GetVersion retrieves the compositor version
func (c *Client) GetVersion(ctx context.Context) (*models.Version, error) {
	payload, err := c.request(ctx, models.MsgGetVersion, nil)
	if err != nil {
		return nil, err
	}

	var v models.Version
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}
	return &v, nil
}

// Subscribe opens a second connection subscribed to window events and
// streams the focus/new/floating ones, in the order Sway emits them.
// The channel is closed when ctx is done or the socket fails.
func (c *Client) Subscribe(ctx context.Context) (<-chan types.Event, error) {
	if c.socketPath == "" {
		return nil, fmt.Errorf("no socket path: set SWAYSOCK or pass --socket")
	}

	conn := NewConnection(c.socketPath, c.timeout)
	resp, err := conn.SendRequest(ctx, models.MsgSubscribe, []byte(`["window"]`))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe failed: %w", err)
	}

	var result models.SubscribeResult
	if err := json.Unmarshal(resp.Payload, &result); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to parse subscribe reply: %w", err)
	}
	if !result.Success {
		conn.Close()
		return nil, fmt.Errorf("server refused subscription")
	}

	reader, err := conn.stream()
	if err != nil {
		conn.Close()
		return nil, err
	}

	events := make(chan types.Event)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer close(done)

		for {
			msg, err := models.ReadMessage(reader)
			if err != nil {
				if ctx.Err() == nil {
					logging.Error().Str("client", c.id).Err(err).Msg("event stream failed")
				}
				return
			}
			if msg.Type != models.EventWindow {
				continue
			}

			wev, err := models.ParseWindowEvent(msg.Payload)
			if err != nil {
				logging.Warn().Str("client", c.id).Err(err).Msg("skipping malformed event")
				continue
			}

			ev, ok := wev.ToEvent()
			if !ok {
				logging.Debug().Str("client", c.id).Str("change", wev.Change).Int64("window_id", wev.Container.ID).Msg("ignoring window event")
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	logging.Info().Str("client", c.id).Str("socket", c.socketPath).Msg("subscribed to window events")
	return events, nil
}
