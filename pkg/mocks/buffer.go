package mocks

import (
	"errors"
	"sync"

	"github.com/user/pcldump/pkg/ports"
)

var errLineClosed = errors.New("mock line closed")

// CaptureBuffer is a mock implementation of ports.CaptureBuffer. By default
// it keeps the bytes in memory, so Size tracks Append and Truncate the way
// the file-backed buffer does on disk.
type CaptureBuffer struct {
	AppendFunc   func(p []byte) error
	SizeFunc     func() (int64, error)
	TruncateFunc func() error
	PathFunc     func() string

	mu sync.Mutex
	// Recorded state for verification
	Data          []byte
	TruncateCalls int
}

// NewCaptureBuffer creates an in-memory mock buffer.
func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

func (m *CaptureBuffer) Append(p []byte) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(p)
	}
	m.mu.Lock()
	m.Data = append(m.Data, p...)
	m.mu.Unlock()
	return nil
}

func (m *CaptureBuffer) Size() (int64, error) {
	if m.SizeFunc != nil {
		return m.SizeFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Data)), nil
}

func (m *CaptureBuffer) Truncate() error {
	m.mu.Lock()
	m.TruncateCalls++
	m.mu.Unlock()
	if m.TruncateFunc != nil {
		return m.TruncateFunc()
	}
	m.mu.Lock()
	m.Data = nil
	m.mu.Unlock()
	return nil
}

func (m *CaptureBuffer) Path() string {
	if m.PathFunc != nil {
		return m.PathFunc()
	}
	return "/tmp/mock.dump"
}

func (m *CaptureBuffer) Close() error {
	return nil
}

// Len returns the current in-memory size.
func (m *CaptureBuffer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Data)
}

// Truncations returns how many times Truncate was called.
func (m *CaptureBuffer) Truncations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.TruncateCalls
}

var _ ports.CaptureBuffer = (*CaptureBuffer)(nil)
