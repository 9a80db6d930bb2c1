package exec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMockExecutor_PrefixMatch(t *testing.T) {
	mock := NewMockExecutor(nil)
	mock.AddPrefixMatch("zellij", []string{"list-sessions"}, MockResponse{Stdout: []byte("a\nb\n")})
	mock.AddPrefixMatch("zellij", []string{}, MockResponse{Err: errors.New("boom")})

	out, err := mock.Output(context.Background(), "", "zellij", "list-sessions", "--short")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "a\nb\n" {
		t.Errorf("Output = %q, want %q", out, "a\nb\n")
	}

	if _, err := mock.CombinedOutput(context.Background(), "/tmp", "zellij", "attach"); err == nil {
		t.Error("expected catch-all rule error")
	}

	calls := mock.GetCalls()
	if len(calls) != 2 {
		t.Fatalf("len(calls) = %d, want 2", len(calls))
	}
	if calls[1].Dir != "/tmp" || calls[1].Args[0] != "attach" {
		t.Errorf("second call = %+v", calls[1])
	}
}

func TestMockExecutor_Fallback(t *testing.T) {
	mock := NewMockExecutor(&MockResponse{Stdout: []byte("ok")})
	out, err := mock.CombinedOutput(context.Background(), "", "anything")
	if err != nil || string(out) != "ok" {
		t.Errorf("CombinedOutput = %q, %v", out, err)
	}

	strict := NewMockExecutor(nil)
	if _, err := strict.Output(context.Background(), "", "anything"); err == nil {
		t.Error("expected error with no rule and no fallback")
	}
}

func TestMockExecutor_CombinedOutput(t *testing.T) {
	mock := NewMockExecutor(nil)
	mock.AddPrefixMatch("tool", nil, MockResponse{Stdout: []byte("out "), Stderr: []byte("err")})

	out, _ := mock.CombinedOutput(context.Background(), "", "tool")
	if string(out) != "out err" {
		t.Errorf("CombinedOutput = %q, want %q", out, "out err")
	}
}

func TestRealExecutor_Output(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	e := NewRealExecutor()
	stdout, err := e.Output(context.Background(), dir, "ls")
	if err != nil {
		t.Skipf("ls not available: %v", err)
	}
	if !strings.Contains(string(stdout), "marker") {
		t.Errorf("ls in %s = %q, want it to list marker", dir, stdout)
	}
}
