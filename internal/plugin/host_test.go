package plugin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhubert/sessionhop/internal/command"
	perrors "github.com/zhubert/sessionhop/internal/errors"
)

type lockedSwitcher struct {
	mu      sync.Mutex
	actions []command.Action
}

func (l *lockedSwitcher) Switch(a command.Action) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = append(l.actions, a)
}

func (l *lockedSwitcher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.actions)
}

func startHost(t *testing.T, sw Switcher) (*Host, context.CancelFunc) {
	t.Helper()
	h := NewHost(NewState(sw))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h, cancel
}

func TestHost_SubmitEvents(t *testing.T) {
	sw := &lockedSwitcher{}
	h, _ := startHost(t, sw)
	ctx := context.Background()

	out, err := h.Submit(ctx, SessionUpdate{Sessions: []string{"a", "b", "c"}})
	require.NoError(t, err)
	require.False(t, out.Switched)
	require.Equal(t, []string{"a", "b", "c"}, out.Sessions)

	out, err = h.Submit(ctx, Pipe{Payload: "2 --layout dev"})
	require.NoError(t, err)
	require.True(t, out.Switched)
	require.Equal(t, command.Action{Session: "c", Layout: command.NamedLayout("dev")}, out.Action)
	require.Equal(t, 1, sw.count())

	out, err = h.Submit(ctx, Pipe{Payload: "--cwd"})
	require.NoError(t, err)
	require.False(t, out.Switched)
	require.Equal(t, []string{"a", "b", "c"}, out.Sessions)
	require.Equal(t, 1, sw.count())

	out, err = h.Submit(ctx, ListSessions{})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, out.Sessions)
}

func TestHost_ConcurrentSubmitters(t *testing.T) {
	sw := &lockedSwitcher{}
	h, _ := startHost(t, sw)
	ctx := context.Background()

	_, err := h.Submit(ctx, SessionUpdate{Sessions: []string{"only"}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := h.Submit(ctx, Pipe{Payload: "0"})
			if err == nil && out.Switched {
				return
			}
			t.Errorf("submit failed: switched=%v err=%v", out.Switched, err)
		}()
	}
	wg.Wait()
	require.Equal(t, 20, sw.count())
}

func TestHost_SubmitAfterStop(t *testing.T) {
	h := NewHost(NewState(nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	_, err := h.Submit(context.Background(), ListSessions{})
	require.ErrorIs(t, err, ErrHostStopped)
}

func TestHost_SubmitTimeout(t *testing.T) {
	// never started
	h := NewHost(NewState(nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Submit(ctx, Pipe{Payload: "0"})
	require.Error(t, err)
	require.True(t, perrors.Is(err, perrors.KindTimeout))
}

func TestHost_SubmitCancelled(t *testing.T) {
	h := NewHost(NewState(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Submit(ctx, ListSessions{})
	require.ErrorIs(t, err, context.Canceled)
}
