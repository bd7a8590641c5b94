package mocks

import (
	"context"
	"sync"

	"github.com/user/pcldump/pkg/ports"
)

// RunCall records one external process invocation.
type RunCall struct {
	Name string
	Args []string
}

// ProcessRunner is a mock implementation of ports.ProcessRunner.
type ProcessRunner struct {
	RunFunc func(ctx context.Context, name string, args ...string) error

	mu sync.Mutex
	// Recorded calls for verification
	Calls []RunCall
}

func (m *ProcessRunner) Run(ctx context.Context, name string, args ...string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, RunCall{Name: name, Args: append([]string{}, args...)})
	m.mu.Unlock()
	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}
	return nil
}

// CallList returns a copy of the recorded invocations.
func (m *ProcessRunner) CallList() []RunCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RunCall{}, m.Calls...)
}

var _ ports.ProcessRunner = (*ProcessRunner)(nil)
