package socket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/zhubert/sessionhop/internal/logger"
	"github.com/zhubert/sessionhop/internal/plugin"
)

// Submitter hands events to the session directory. *plugin.Host satisfies it.
type Submitter interface {
	Submit(ctx context.Context, ev plugin.Event) (plugin.Outcome, error)
}

// ErrAlreadyRunning is returned by NewServer when another server answers on
// the socket path.
var ErrAlreadyRunning = errors.New("a server is already listening on this socket")

// Server accepts host connections and forwards their requests.
type Server struct {
	socketPath string
	listener   net.Listener
	host       Submitter
	closed     bool
	closedMu   sync.RWMutex
	wg         sync.WaitGroup
	log        *slog.Logger

	readTimeout time.Duration
}

// NewServer listens on socketPath. A stale socket file left behind by a dead
// server is removed first.
func NewServer(socketPath string, host Submitter) (*Server, error) {
	log := logger.ComponentLogger("socket")

	if conn, err := net.DialTimeout("unix", socketPath, time.Second); err == nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", socketPath, ErrAlreadyRunning)
	}
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", socketPath, err)
	}

	log.Info("listening", "socketPath", socketPath)

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		host:       host,
		log:        log,

		readTimeout: ReadTimeout,
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start launches Run in a goroutine.
func (s *Server) Start() {
	s.wg.Add(1)
	go s.Run()
}

// Run accepts connections until Close. Use Start rather than calling go Run().
func (s *Server) Run() {
	defer s.wg.Done()

	for {
		if s.isClosed() {
			s.log.Info("server closed, stopping accept loop")
			return
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				s.log.Info("listener closed, stopping")
				return
			}
			s.log.Warn("accept error (continuing)", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) isClosed() bool {
	s.closedMu.RLock()
	defer s.closedMu.RUnlock()
	return s.closed
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	s.log.Debug("connection accepted")

	reader := bufio.NewReader(conn)
	// pending holds a request line that was cut off by a read deadline.
	var pending []byte

	for {
		if s.isClosed() {
			return
		}

		conn.SetReadDeadline(time.Now().Add(s.readTimeout))

		chunk, err := reader.ReadBytes('\n')
		pending = append(pending, chunk...)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.EOF) {
				s.log.Error("read error", "error", err)
			}
			return
		}
		line := pending
		pending = nil

		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			s.log.Error("JSON parse error", "error", err)
			s.send(conn, Message{Result: &Result{Error: "malformed message"}})
			continue
		}

		s.send(conn, s.handle(msg))
	}
}

// handle turns one request into a host event and the outcome into a reply.
func (s *Server) handle(msg Message) Message {
	log := logger.WithRequest(msg.ID).With("component", "socket", "type", msg.Type)
	reply := Message{Type: msg.Type, ID: msg.ID}

	var ev plugin.Event
	switch msg.Type {
	case MessageTypeSessionUpdate:
		ev = plugin.SessionUpdate{Sessions: msg.Sessions}
	case MessageTypePipe:
		ev = plugin.Pipe{Payload: msg.Payload}
	case MessageTypeList:
		ev = plugin.ListSessions{}
	default:
		log.Warn("unknown message type")
		reply.Result = &Result{Error: fmt.Sprintf("unknown message type %q", msg.Type)}
		return reply
	}

	ctx, cancel := context.WithTimeout(context.Background(), SubmitTimeout)
	defer cancel()

	out, err := s.host.Submit(ctx, ev)
	if err != nil {
		log.Error("submit failed", "error", err)
		reply.Result = &Result{Error: err.Error()}
		return reply
	}

	res := &Result{Switched: out.Switched, Sessions: out.Sessions}
	if out.Switched {
		action := out.Action
		res.Action = &action
	}
	if res.Sessions == nil {
		res.Sessions = []string{}
	}
	log.Debug("request handled", "switched", res.Switched, "sessions", len(res.Sessions))
	reply.Result = res
	return reply
}

func (s *Server) send(conn net.Conn, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("failed to marshal reply", "error", err)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if _, err := conn.Write(append(data, '\n')); err != nil {
		s.log.Error("write error", "error", err)
	}
}

// Close stops accepting connections, waits for the accept loop and removes
// the socket file.
func (s *Server) Close() error {
	s.log.Info("closing socket server")

	s.closedMu.Lock()
	s.closed = true
	s.closedMu.Unlock()

	err := s.listener.Close()
	s.wg.Wait()

	if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
		s.log.Warn("failed to remove socket file", "socketPath", s.socketPath, "error", removeErr)
	}

	return err
}
