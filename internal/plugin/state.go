// Package plugin holds the session directory state and the loop that feeds
// it events.
//
// State is the single context object for the process: it owns the session
// roster, the command parser and the switch effect. It is not safe for
// concurrent use; Host serializes every event onto one goroutine so that each
// event is processed to completion before the next one starts.
package plugin

import (
	"log/slog"

	"github.com/zhubert/sessionhop/internal/command"
	"github.com/zhubert/sessionhop/internal/logger"
	"github.com/zhubert/sessionhop/internal/registry"
)

// Switcher performs a resolved switch. Implementations must not block the
// caller on the outcome; the state never observes success or failure.
type Switcher interface {
	Switch(a command.Action)
}

// SwitcherFunc adapts a function to Switcher.
type SwitcherFunc func(a command.Action)

func (f SwitcherFunc) Switch(a command.Action) { f(a) }

// State is the session directory.
type State struct {
	sessions *registry.Registry
	parser   *command.Parser
	switcher Switcher
	log      *slog.Logger
}

// Option configures a State.
type Option func(*State)

// WithReservedWords replaces the default reserved word table.
func WithReservedWords(words []string) Option {
	return func(s *State) {
		s.parser = command.NewParser(append([]string{}, words...)...)
	}
}

// NewState creates an empty directory that sends switches to sw.
func NewState(sw Switcher, opts ...Option) *State {
	s := &State{
		sessions: registry.New(),
		parser:   command.NewParser(),
		switcher: sw,
		log:      logger.ComponentLogger("plugin"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update reconciles the roster with the live session names reported by the host.
func (s *State) Update(live []string) {
	before := s.sessions.Len()
	s.sessions.Reconcile(live)
	s.log.Debug("sessions reconciled", "live", len(live), "before", before, "after", s.sessions.Len())
}

// Pipe handles one command payload. When it resolves to a switch, the switch
// is handed to the switcher and returned. Parse errors, a missing target and
// out-of-range positions are all no-ops.
func (s *State) Pipe(payload string) (command.Action, bool) {
	req, err := s.parser.Parse(payload)
	if err != nil {
		s.log.Warn("ignoring malformed command", "payload", payload, "error", err)
		return command.Action{}, false
	}

	action, ok := command.Resolve(req, s.sessions)
	if !ok {
		s.log.Debug("command resolved to nothing", "payload", payload, "target", req.Target, "sessions", s.sessions.Len())
		return command.Action{}, false
	}

	s.log.Info("switching session", "session", action.Session, "layout", action.Layout.File(), "cwd", action.Cwd)
	if s.switcher != nil {
		s.switcher.Switch(action)
	}
	return action, true
}

// Sessions returns the roster in order.
func (s *State) Sessions() []string {
	return s.sessions.Names()
}
