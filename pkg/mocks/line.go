// Package mocks provides mock implementations for testing.
package mocks

import (
	"sync"

	"github.com/user/pcldump/pkg/ports"
)

// LineSource is a mock implementation of ports.LineSource.
type LineSource struct {
	ReadUnitFunc func() ([]byte, error)
	SendFunc     func(cmd string) error
	CloseFunc    func() error

	mu sync.Mutex
	// Recorded calls for verification
	SentCommands []string
	CloseCalled  bool

	closeOnce sync.Once
	closed    chan struct{}
}

// NewLineSource creates a mock line whose default ReadUnit blocks until
// Close is called.
func NewLineSource() *LineSource {
	return &LineSource{closed: make(chan struct{})}
}

func (m *LineSource) ReadUnit() ([]byte, error) {
	if m.ReadUnitFunc != nil {
		return m.ReadUnitFunc()
	}
	if m.closed != nil {
		<-m.closed
	}
	return nil, errLineClosed
}

func (m *LineSource) Send(cmd string) error {
	m.mu.Lock()
	m.SentCommands = append(m.SentCommands, cmd)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(cmd)
	}
	return nil
}

func (m *LineSource) Close() error {
	m.mu.Lock()
	m.CloseCalled = true
	m.mu.Unlock()
	if m.closed != nil {
		m.closeOnce.Do(func() { close(m.closed) })
	}
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Sent returns a copy of the recorded startup commands.
func (m *LineSource) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.SentCommands...)
}

var _ ports.LineSource = (*LineSource)(nil)
