package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	perrors "github.com/zhubert/sessionhop/internal/errors"
	"github.com/zhubert/sessionhop/internal/logger"
)

// Client talks to a running server. It is not safe for concurrent use.
type Client struct {
	socketPath string
	conn       net.Conn
	reader     *bufio.Reader
}

// NewClient connects to the server listening on socketPath.
func NewClient(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, WriteTimeout)
	if err != nil {
		return nil, perrors.SocketDialFailed(socketPath, err)
	}

	return &Client{
		socketPath: socketPath,
		conn:       conn,
		reader:     bufio.NewReader(conn),
	}, nil
}

// SendSessionUpdate reports the full list of live sessions.
func (c *Client) SendSessionUpdate(sessions []string) (Result, error) {
	return c.roundTrip(Message{Type: MessageTypeSessionUpdate, Sessions: sessions})
}

// SendPipe delivers a command payload.
func (c *Client) SendPipe(payload string) (Result, error) {
	return c.roundTrip(Message{Type: MessageTypePipe, Payload: payload})
}

// ListSessions returns the server's roster.
func (c *Client) ListSessions() ([]string, error) {
	res, err := c.roundTrip(Message{Type: MessageTypeList})
	if err != nil {
		return nil, err
	}
	return res.Sessions, nil
}

func (c *Client) roundTrip(msg Message) (Result, error) {
	msg.ID = uuid.NewString()
	log := logger.WithRequest(msg.ID).With("component", "socket-client", "type", msg.Type)

	reqJSON, err := json.Marshal(msg)
	if err != nil {
		return Result{}, err
	}

	c.conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if _, err := c.conn.Write(append(reqJSON, '\n')); err != nil {
		return Result{}, fmt.Errorf("write %s request: %w", msg.Type, err)
	}
	log.Debug("request sent")

	c.conn.SetReadDeadline(time.Now().Add(ResponseTimeout))
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return Result{}, fmt.Errorf("read %s response: %w", msg.Type, err)
	}

	var resp Message
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return Result{}, fmt.Errorf("decode %s response: %w", msg.Type, err)
	}
	if resp.ID != msg.ID {
		return Result{}, fmt.Errorf("response id %q does not match request %q", resp.ID, msg.ID)
	}
	if resp.Result == nil {
		return Result{}, fmt.Errorf("expected %s result, got nil", msg.Type)
	}
	if resp.Result.Error != "" {
		log.Warn("server reported error", "error", resp.Result.Error)
		return *resp.Result, fmt.Errorf("server: %s", resp.Result.Error)
	}

	log.Debug("response received", "switched", resp.Result.Switched)
	return *resp.Result, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
