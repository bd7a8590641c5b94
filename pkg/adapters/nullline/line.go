// Package nullline provides the degraded line source for ignore-absence
// mode: it never produces bytes, so the monitor never observes growth
// unless another process writes the buffer file directly.
package nullline

import (
	"errors"
	"sync"

	"github.com/user/pcldump/pkg/ports"
)

// ErrClosed is returned by ReadUnit once the line is closed.
var ErrClosed = errors.New("null line closed")

// Line is a no-op implementation of ports.LineSource.
type Line struct {
	closed chan struct{}
	once   sync.Once
}

// New creates a null line.
func New() *Line {
	return &Line{closed: make(chan struct{})}
}

// ReadUnit blocks until Close is called.
func (l *Line) ReadUnit() ([]byte, error) {
	<-l.closed
	return nil, ErrClosed
}

// Send does nothing.
func (l *Line) Send(cmd string) error {
	return nil
}

// Close unblocks pending reads. Idempotent.
func (l *Line) Close() error {
	l.once.Do(func() { close(l.closed) })
	return nil
}

var _ ports.LineSource = (*Line)(nil)
