package plugin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zhubert/sessionhop/internal/command"
	perrors "github.com/zhubert/sessionhop/internal/errors"
	"github.com/zhubert/sessionhop/internal/logger"
)

// ErrHostStopped is returned by Submit once the host loop has exited.
var ErrHostStopped = errors.New("host stopped")

// Event is something the host delivers to the state.
type Event interface {
	eventName() string
}

// SessionUpdate reports the complete set of live sessions.
type SessionUpdate struct {
	Sessions []string
}

// Pipe carries a command payload.
type Pipe struct {
	Payload string
}

// ListSessions asks for the current roster without changing it.
type ListSessions struct{}

func (SessionUpdate) eventName() string { return "sessionUpdate" }
func (Pipe) eventName() string          { return "pipe" }
func (ListSessions) eventName() string  { return "list" }

// Outcome is the result of processing one event.
type Outcome struct {
	// Switched is true when a Pipe event resolved to Action.
	Switched bool
	Action   command.Action
	// Sessions is the roster after the event.
	Sessions []string
}

type envelope struct {
	event Event
	reply chan Outcome
}

// Host feeds events to a State one at a time.
type Host struct {
	state  *State
	events chan envelope
	done   chan struct{}
	log    *slog.Logger
}

// NewHost creates a host for state. Call Run to start processing.
func NewHost(state *State) *Host {
	return &Host{
		state:  state,
		events: make(chan envelope),
		done:   make(chan struct{}),
		log:    logger.ComponentLogger("host"),
	}
}

// Run processes events until ctx is cancelled. It must be called once.
func (h *Host) Run(ctx context.Context) error {
	defer close(h.done)
	h.log.Info("host loop started")

	for {
		select {
		case <-ctx.Done():
			h.log.Info("host loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case env := <-h.events:
			env.reply <- h.process(env.event)
		}
	}
}

func (h *Host) process(ev Event) Outcome {
	var out Outcome
	switch e := ev.(type) {
	case SessionUpdate:
		h.state.Update(e.Sessions)
	case Pipe:
		out.Action, out.Switched = h.state.Pipe(e.Payload)
	case ListSessions:
	default:
		h.log.Warn("unknown event", "type", ev.eventName())
	}
	out.Sessions = h.state.Sessions()
	return out
}

// Submit hands ev to the loop and waits for it to be processed.
func (h *Host) Submit(ctx context.Context, ev Event) (Outcome, error) {
	env := envelope{event: ev, reply: make(chan Outcome, 1)}

	select {
	case h.events <- env:
	case <-h.done:
		return Outcome{}, ErrHostStopped
	case <-ctx.Done():
		return Outcome{}, h.ctxErr(ctx, ev)
	}

	select {
	case out := <-env.reply:
		return out, nil
	case <-ctx.Done():
		return Outcome{}, h.ctxErr(ctx, ev)
	}
}

func (h *Host) ctxErr(ctx context.Context, ev Event) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return perrors.HostTimeout(ev.eventName())
	}
	return ctx.Err()
}
