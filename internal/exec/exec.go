// Package exec abstracts running external commands so that callers can be
// exercised in tests without a multiplexer installed.
package exec

import (
	"context"
	"os/exec"
)

// CommandExecutor runs external commands in a working directory.
// An empty dir runs the command in the current directory.
type CommandExecutor interface {
	// Output returns stdout only.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// CombinedOutput returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// RealExecutor runs commands with os/exec.
type RealExecutor struct{}

// NewRealExecutor returns an executor backed by os/exec.
func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

func (e *RealExecutor) command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd
}

func (e *RealExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return e.command(ctx, dir, name, args...).Output()
}

func (e *RealExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return e.command(ctx, dir, name, args...).CombinedOutput()
}
