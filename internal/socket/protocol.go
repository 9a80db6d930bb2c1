// Package socket carries session updates and commands between hosts and the
// sessionhop server over a unix socket. Messages are newline-delimited JSON;
// every request gets exactly one reply of the same type and ID.
package socket

import (
	"time"

	"github.com/zhubert/sessionhop/internal/command"
)

const (
	// ReadTimeout bounds each read on an idle server connection. The handler
	// wakes up on expiry to check whether the server is closing. A request
	// line cut off by the deadline is kept and completed by later reads.
	ReadTimeout = 10 * time.Second

	// WriteTimeout bounds every write in both directions.
	WriteTimeout = 10 * time.Second

	// SubmitTimeout is how long the server waits for the host loop to
	// process one request.
	SubmitTimeout = 5 * time.Second

	// ResponseTimeout is how long a client waits for a reply.
	ResponseTimeout = 15 * time.Second
)

// MessageType identifies the kind of socket message.
type MessageType string

const (
	MessageTypeSessionUpdate MessageType = "sessionUpdate"
	MessageTypePipe          MessageType = "pipe"
	MessageTypeList          MessageType = "list"
)

// Message is one line on the wire. Requests fill Sessions or Payload
// depending on Type; replies fill Result.
type Message struct {
	Type     MessageType `json:"type"`
	ID       string      `json:"id,omitempty"`
	Sessions []string    `json:"sessions,omitempty"`
	Payload  string      `json:"payload,omitempty"`
	Result   *Result     `json:"result,omitempty"`
}

// Result is the server's answer to a request.
type Result struct {
	Switched bool            `json:"switched"`
	Action   *command.Action `json:"action,omitempty"`
	Sessions []string        `json:"sessions"`
	Error    string          `json:"error,omitempty"`
}
