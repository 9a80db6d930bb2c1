// Package switcher performs resolved session switches by running an external
// command. The switch is fire-and-forget: the caller never learns whether the
// command succeeded, failures are only logged and optionally notified.
package switcher

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/zhubert/sessionhop/internal/command"
	pexec "github.com/zhubert/sessionhop/internal/exec"
	"github.com/zhubert/sessionhop/internal/logger"
	"github.com/zhubert/sessionhop/internal/notification"
)

const defaultTimeout = 10 * time.Second

// ExecSwitcher runs a configured argv template for each action.
type ExecSwitcher struct {
	executor pexec.CommandExecutor
	argv     []string
	timeout  time.Duration
	notify   bool
	log      *slog.Logger
	wg       sync.WaitGroup
}

// Option configures an ExecSwitcher.
type Option func(*ExecSwitcher)

// WithTimeout bounds how long one switch command may run.
func WithTimeout(d time.Duration) Option {
	return func(s *ExecSwitcher) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithNotifications raises a desktop notification when a switch fails.
func WithNotifications(enabled bool) Option {
	return func(s *ExecSwitcher) {
		s.notify = enabled
	}
}

// New returns a switcher running argv through executor. argv may contain the
// placeholders {session}, {layout} and {cwd}.
func New(executor pexec.CommandExecutor, argv []string, opts ...Option) *ExecSwitcher {
	s := &ExecSwitcher{
		executor: executor,
		argv:     append([]string(nil), argv...),
		timeout:  defaultTimeout,
		log:      logger.ComponentLogger("switcher"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Expand substitutes the action into argv.
func Expand(argv []string, a command.Action) []string {
	r := strings.NewReplacer(
		"{session}", a.Session,
		"{layout}", a.Layout.File(),
		"{cwd}", a.Cwd,
	)
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = r.Replace(arg)
	}
	return out
}

// Switch starts the switch command in the background and returns at once.
// The command runs in the action's working directory when one is set.
func (s *ExecSwitcher) Switch(a command.Action) {
	args := Expand(s.argv, a)
	if len(args) == 0 || args[0] == "" {
		s.log.Error("switch command is empty", "session", a.Session)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		out, err := s.executor.CombinedOutput(ctx, a.Cwd, args[0], args[1:]...)
		if err != nil {
			s.log.Warn("switch failed",
				"session", a.Session,
				"layout", a.Layout.File(),
				"cwd", a.Cwd,
				"error", err,
				"output", strings.TrimSpace(string(out)))
			if s.notify {
				notification.SwitchFailed(a.Session, err)
			}
			return
		}
		s.log.Info("switched", "session", a.Session, "layout", a.Layout.File(), "elapsed", time.Since(start))
	}()
}

// Wait blocks until every switch started so far has finished.
func (s *ExecSwitcher) Wait() {
	s.wg.Wait()
}
