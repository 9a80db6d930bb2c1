package switcher

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zhubert/sessionhop/internal/command"
	pexec "github.com/zhubert/sessionhop/internal/exec"
	"github.com/zhubert/sessionhop/internal/notification"
)

var defaultArgv = []string{"zellij", "--layout", "{layout}", "attach", "--create", "{session}"}

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		argv   []string
		action command.Action
		want   []string
	}{
		{
			name:   "named layout",
			argv:   defaultArgv,
			action: command.Action{Session: "b", Layout: command.NamedLayout("work")},
			want:   []string{"zellij", "--layout", "work.kdl", "attach", "--create", "b"},
		},
		{
			name:   "default layout",
			argv:   defaultArgv,
			action: command.Action{Session: "myroom", Layout: command.DefaultLayout()},
			want:   []string{"zellij", "--layout", "default", "attach", "--create", "myroom"},
		},
		{
			name:   "cwd placeholder and embedded placeholders",
			argv:   []string{"tmux", "new-session", "-A", "-s", "{session}", "-c", "{cwd}", "--name={session}-x"},
			action: command.Action{Session: "s", Layout: command.DefaultLayout(), Cwd: "/tmp"},
			want:   []string{"tmux", "new-session", "-A", "-s", "s", "-c", "/tmp", "--name=s-x"},
		},
		{
			name:   "session names are not re-expanded",
			argv:   []string{"run", "{session}"},
			action: command.Action{Session: "{layout}", Layout: command.NamedLayout("x")},
			want:   []string{"run", "{layout}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Expand(tt.argv, tt.action))
		})
	}
}

func TestSwitch_RunsCommandInCwd(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("zellij", nil, pexec.MockResponse{})

	s := New(mock, defaultArgv)
	s.Switch(command.Action{Session: "b", Layout: command.NamedLayout("work"), Cwd: "/tmp"})
	s.Wait()

	calls := mock.GetCalls()
	require.Len(t, calls, 1)
	require.Equal(t, "/tmp", calls[0].Dir)
	require.Equal(t, "zellij", calls[0].Name)
	require.Equal(t, []string{"--layout", "work.kdl", "attach", "--create", "b"}, calls[0].Args)
}

func TestSwitch_FailureNotifies(t *testing.T) {
	var mu sync.Mutex
	var messages []string
	notification.SetNotifier(func(title, message string, icon any) error {
		mu.Lock()
		defer mu.Unlock()
		messages = append(messages, message)
		return nil
	})
	defer notification.ResetNotifier()

	mock := pexec.NewMockExecutor(&pexec.MockResponse{Err: errors.New("exit status 1")})

	s := New(mock, defaultArgv, WithNotifications(true), WithTimeout(time.Second))
	s.Switch(command.Action{Session: "ghost", Layout: command.DefaultLayout()})
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"could not switch to ghost: exit status 1"}, messages)
}

func TestSwitch_FailureWithoutNotifications(t *testing.T) {
	called := false
	notification.SetNotifier(func(title, message string, icon any) error {
		called = true
		return nil
	})
	defer notification.ResetNotifier()

	mock := pexec.NewMockExecutor(nil)
	s := New(mock, defaultArgv)
	s.Switch(command.Action{Session: "ghost", Layout: command.DefaultLayout()})
	s.Wait()

	require.False(t, called)
	require.Len(t, mock.GetCalls(), 1)
}

func TestSwitch_EmptyCommandIsSkipped(t *testing.T) {
	mock := pexec.NewMockExecutor(nil)
	s := New(mock, nil)
	s.Switch(command.Action{Session: "a", Layout: command.DefaultLayout()})
	s.Wait()

	require.Empty(t, mock.GetCalls())
}

func TestNew_CopiesArgv(t *testing.T) {
	argv := []string{"zellij", "attach", "{session}"}
	mock := pexec.NewMockExecutor(&pexec.MockResponse{})
	s := New(mock, argv)
	argv[0] = "changed"

	s.Switch(command.Action{Session: "a", Layout: command.DefaultLayout()})
	s.Wait()
	require.Equal(t, "zellij", mock.GetCalls()[0].Name)
}
