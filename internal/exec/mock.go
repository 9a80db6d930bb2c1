package exec

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MockResponse is the canned result of a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// MockCall records one command run through a MockExecutor.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

type prefixRule struct {
	name     string
	prefix   []string
	response MockResponse
}

// MockExecutor returns canned responses for commands matched by name and
// argument prefix. Rules are tried in the order they were added. Commands
// with no matching rule return the fallback, or an error when there is none.
type MockExecutor struct {
	mu       sync.Mutex
	rules    []prefixRule
	calls    []MockCall
	fallback *MockResponse
}

// NewMockExecutor creates a mock. A nil fallback makes unmatched commands fail.
func NewMockExecutor(fallback *MockResponse) *MockExecutor {
	return &MockExecutor{fallback: fallback}
}

// AddPrefixMatch registers a response for name invoked with args starting with prefix.
func (m *MockExecutor) AddPrefixMatch(name string, prefix []string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, prefixRule{name: name, prefix: prefix, response: resp})
}

// GetCalls returns every command run so far.
func (m *MockExecutor) GetCalls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

func (m *MockExecutor) respond(dir, name string, args []string) MockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Dir: dir, Name: name, Args: slices.Clone(args)})
	for _, r := range m.rules {
		if r.name == name && len(args) >= len(r.prefix) && slices.Equal(args[:len(r.prefix)], r.prefix) {
			return r.response
		}
	}
	if m.fallback != nil {
		return *m.fallback
	}
	return MockResponse{Err: fmt.Errorf("mock: no response for %s %v", name, args)}
}

func (m *MockExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	r := m.respond(dir, name, args)
	return r.Stdout, r.Err
}

func (m *MockExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	r := m.respond(dir, name, args)
	return append(append([]byte{}, r.Stdout...), r.Stderr...), r.Err
}
