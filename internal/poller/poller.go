// Package poller keeps the session directory in sync with the multiplexer by
// running its list command on an interval.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	pexec "github.com/zhubert/sessionhop/internal/exec"
	"github.com/zhubert/sessionhop/internal/logger"
	"github.com/zhubert/sessionhop/internal/plugin"
)

const (
	defaultInterval = 2 * time.Second
	commandTimeout  = 5 * time.Second
)

// ErrNoCommand is returned by List when no list command is configured.
var ErrNoCommand = errors.New("no list command configured")

// Submitter receives session updates. *plugin.Host satisfies it.
type Submitter interface {
	Submit(ctx context.Context, ev plugin.Event) (plugin.Outcome, error)
}

// Poller runs argv through an executor and reports the sessions it prints.
type Poller struct {
	executor pexec.CommandExecutor
	argv     []string
	interval time.Duration
	host     Submitter
	listSf   singleflight.Group
	log      *slog.Logger
}

// New creates a poller. A non-positive interval falls back to two seconds.
func New(executor pexec.CommandExecutor, argv []string, interval time.Duration, host Submitter) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		executor: executor,
		argv:     append([]string(nil), argv...),
		interval: interval,
		host:     host,
		log:      logger.ComponentLogger("poller"),
	}
}

// ParseSessions splits list command output into session names, one per line.
// Lines are trimmed and blank lines dropped.
func ParseSessions(output string) []string {
	sessions := []string{}
	for _, line := range strings.Split(output, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			sessions = append(sessions, name)
		}
	}
	return sessions
}

func (p *Poller) disabled() bool {
	return len(p.argv) == 0 || p.argv[0] == ""
}

// List runs the list command and returns the sessions it reports. Concurrent
// callers share a single run.
func (p *Poller) List(ctx context.Context) ([]string, error) {
	if p.disabled() {
		return nil, ErrNoCommand
	}

	v, err, shared := p.listSf.Do("list", func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		out, err := p.executor.Output(ctx, "", p.argv[0], p.argv[1:]...)
		if err != nil {
			return nil, err
		}
		return ParseSessions(string(out)), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.log.Debug("list result shared with concurrent poll")
	}
	return slices.Clone(v.([]string)), nil
}

// PollOnce lists sessions and submits them to the host. A failed list leaves
// the roster untouched.
func (p *Poller) PollOnce(ctx context.Context) error {
	if p.disabled() {
		return nil
	}

	sessions, err := p.List(ctx)
	if err != nil {
		p.log.Warn("list command failed", "command", strings.Join(p.argv, " "), "error", err)
		return err
	}

	if _, err := p.host.Submit(ctx, plugin.SessionUpdate{Sessions: sessions}); err != nil {
		p.log.Warn("failed to submit session update", "error", err)
		return err
	}
	p.log.Debug("polled sessions", "count", len(sessions))
	return nil
}

// Run polls immediately and then on every tick until ctx is cancelled.
// An empty command disables polling.
func (p *Poller) Run(ctx context.Context) {
	if p.disabled() {
		p.log.Info("no list command configured, polling disabled")
		return
	}

	p.log.Info("poller started", "interval", p.interval)
	_ = p.PollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped")
			return
		case <-ticker.C:
			_ = p.PollOnce(ctx)
		}
	}
}
