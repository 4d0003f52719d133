package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ipcVersion = 1
	ioTimeout  = 5 * time.Second

	cmdSetActivity = "SET_ACTIVITY"
	evtReady       = "READY"
	evtError       = "ERROR"
)

// ErrNotConnected is returned when no IPC socket could be reached
var ErrNotConnected = errors.New("discord is not running")

// Dialer opens the IPC connection to the local Discord client
type Dialer func(ctx context.Context) (net.Conn, error)

// Client speaks the Discord Rich Presence IPC protocol.
// A dropped connection is reopened by the next Update or Clear.
type Client struct {
	logger   *zap.Logger
	clientID string
	dial     Dialer
	pid      int

	mu   sync.Mutex
	conn net.Conn
}

// NewClient creates a presence client for the configured application.
// A nil dial uses the platform IPC socket.
func NewClient(logger *zap.Logger, cfg domain.Config, dial Dialer) *Client {
	if dial == nil {
		dial = dialIPC
	}
	return &Client{
		logger:   logger,
		clientID: cfg.GetClientID(),
		dial:     dial,
		pid:      os.Getpid(),
	}
}

// Connect opens the socket and performs the handshake
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("failed to open discord ipc: %w", err)
	}
	setDeadline(ctx, conn)

	if err := writeFrame(conn, opHandshake, handshake{V: ipcVersion, ClientID: c.clientID}); err != nil {
		conn.Close()
		return err
	}

	op, payload, err := readFrame(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}
	if op == opClose {
		conn.Close()
		return fmt.Errorf("handshake rejected: %s", closeReason(payload))
	}

	var resp response
	if err := json.Unmarshal(payload, &resp); err != nil {
		conn.Close()
		return fmt.Errorf("invalid handshake response: %w", err)
	}
	if resp.Evt != evtReady {
		conn.Close()
		return fmt.Errorf("unexpected handshake event %q", resp.Evt)
	}

	c.conn = conn
	c.logger.Info("Connected to Discord", zap.String("clientID", c.clientID))
	return nil
}

// Update replaces the displayed activity
func (c *Client) Update(ctx context.Context, a domain.Activity) error {
	return c.setActivity(ctx, toActivity(a))
}

// Clear removes the displayed activity
func (c *Client) Clear(ctx context.Context) error {
	return c.setActivity(ctx, nil)
}

func (c *Client) setActivity(ctx context.Context, a *activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return err
	}

	cmd := command{
		Cmd:   cmdSetActivity,
		Args:  commandArgs{PID: c.pid, Activity: a},
		Nonce: uuid.NewString(),
	}

	if err := c.roundTrip(ctx, cmd); err != nil {
		var rpcErr *RPCError
		if !errors.As(err, &rpcErr) {
			c.dropLocked()
		}
		return err
	}
	return nil
}

// roundTrip sends cmd and waits for the response carrying its nonce
func (c *Client) roundTrip(ctx context.Context, cmd command) error {
	setDeadline(ctx, c.conn)

	if err := writeFrame(c.conn, opFrame, cmd); err != nil {
		return err
	}

	for {
		op, payload, err := readFrame(c.conn)
		if err != nil {
			return err
		}

		switch op {
		case opPing:
			pong := json.RawMessage(payload)
			if len(pong) == 0 {
				pong = json.RawMessage("{}")
			}
			if err := writeFrame(c.conn, opPong, pong); err != nil {
				return err
			}
			continue
		case opClose:
			return fmt.Errorf("connection closed by discord: %s", closeReason(payload))
		case opFrame:
		default:
			continue
		}

		var resp response
		if err := json.Unmarshal(payload, &resp); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
		if resp.Nonce != cmd.Nonce {
			continue
		}
		if resp.Evt == evtError {
			var data errorData
			_ = json.Unmarshal(resp.Data, &data)
			return &RPCError{Code: data.Code, Message: data.Message}
		}
		return nil
	}
}

// dropLocked closes a broken connection so the next call reconnects
func (c *Client) dropLocked() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		c.logger.Debug("Failed to close discord ipc", zap.Error(err))
	}
	c.conn = nil
	c.logger.Warn("Discord connection lost, will reconnect on next update")
}

// Close closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Connected reports whether a handshake has completed on the current socket
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// RPCError is an ERROR event returned by the IPC server
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("discord rpc error %d: %s", e.Code, e.Message)
}

func setDeadline(ctx context.Context, conn net.Conn) {
	deadline := time.Now().Add(ioTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)
}

func closeReason(payload []byte) string {
	var data errorData
	if err := json.Unmarshal(payload, &data); err != nil || data.Message == "" {
		return string(payload)
	}
	return data.Message
}
